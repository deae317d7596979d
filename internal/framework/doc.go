// Package framework is the scaffolding for small home-automation workers.
//
// A Facade bundles the chores every worker repeats: parse the command
// line, read and validate the settings file, set up logging, load the
// state file, run one periodic job and forward data-object changes to the
// configured downstream targets. The caller plugs in three types of its
// own: the arguments, the settings and the state.
//
// The setup calls are made in order:
//
//	f := framework.New[Args, Settings, State]("homenet-demo", version)
//	if err := f.ParseArguments(os.Args[1:]); err != nil { ... }
//	if err := f.ReadConfiguration(); err != nil { ... }
//	if err := f.ValidateConfiguration(); err != nil { ... }
//	if err := f.InitLogger(); err != nil { ... }
//	f.InitOutboundConnections(ctx)
//	f.ReadStateFile()
//	f.StartBackgroundJob(ctx, job, f.Settings.IntervalInSeconds)
//	...
//	f.Notify(ctx, "MY_DATAOBJECT", "MY_VALUE")
//	...
//	f.StopBackgroundJob()
//	f.SaveStateFile()
//	f.Close()
//
// The facade does not lock Settings or State. A periodic job and an
// interactive handler that both touch State must synchronise themselves.
package framework
