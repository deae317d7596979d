package influxdb

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// measurementDataObject is the measurement holding data-object values.
const measurementDataObject = "dataobject"

// newDataObjectPoint builds the point recorded for one data-object value.
func newDataObjectPoint(name, value string, ts time.Time) *write.Point {
	fields := map[string]interface{}{
		"value": value,
	}
	if f, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
		fields["numeric"] = f
	}

	return write.NewPoint(
		measurementDataObject,
		map[string]string{"name": name},
		fields,
		ts,
	)
}

// WriteDataObject writes one data-object value and waits for the server.
func (c *Client) WriteDataObject(ctx context.Context, name, value string) error {
	if !c.IsConnected() {
		return fmt.Errorf("%w: %w", ErrWriteFailed, ErrNotConnected)
	}

	if err := c.writeAPI.WritePoint(ctx, newDataObjectPoint(name, value, time.Now())); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}
	return nil
}

// Send records value for the data object name.
func (c *Client) Send(ctx context.Context, name, value string) error {
	return c.WriteDataObject(ctx, name, value)
}
