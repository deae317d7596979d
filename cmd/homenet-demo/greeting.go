package main

import "fmt"

var banner = []string{
	`-------------------------------------------------------------------------------`,
	`     _                                     _       _                           `,
	`    | |__   ___  _ __ ___   ___ _ __   ___| |_    __| | ___ _ __ ___   ___     `,
	`    | '_ \ / _ \| '_ ' _ \ / _ \ '_ \ / _ \ __|  / _' |/ _ \ '_ ' _ \ / _ \    `,
	`    | | | | (_) | | | | | |  __/ | | |  __/ |_  | (_| |  __/ | | | | | (_) |   `,
	`    |_| |_|\___/|_| |_| |_|\___|_| |_|\___|\__|  \__,_|\___|_| |_| |_|\___/    `,
	`                                                                               `,
}

// printGreeting logs the banner, the version and the effective settings.
func (a *app) printGreeting() {
	log := a.f.Logger
	for _, line := range banner {
		log.Debug(line)
	}
	log.Info(fmt.Sprintf("Program started, Version %s", a.f.Version()))
	log.Debug(banner[0])
	log.Debug("Configuration loaded from file    : " + a.f.ConfigurationPath())
	log.Debug(fmt.Sprintf("Background worker interval        : %d", a.f.Settings.IntervalInSeconds))
	a.f.LogTargets()
}
