// Package influxdb records data-object values in InfluxDB.
//
// It is the optional third outbound target: every notified value becomes one
// point in the "dataobject" measurement, tagged with the data-object name.
// Values that parse as numbers are also stored in a float field so they can
// be graphed.
//
// Writes use the blocking write API so that each failure is reported to the
// caller of Send and logged there, the same way the other targets report.
//
// # Usage
//
//	client, err := influxdb.Connect(ctx, *cfg.InfluxDBConfig)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	err = client.WriteDataObject(ctx, "MY_DATAOBJECT", "21.5")
package influxdb
