package collector

import (
	"unsafe"

	"github.com/fluent/fluent-bit-go/output"

	"github.com/anthonydresser/fluent-bit-hist/log"
	"github.com/anthonydresser/fluent-bit-hist/utils"
)

// Aggregate decodes a msgpack chunk handed over by fluent-bit and fills
// every record into the histograms. It returns the number of records
// decoded.
func (c *Collector) Aggregate(data unsafe.Pointer, length int) int {
	dec := output.NewDecoder(data, length)

	count := 0
	for {
		ret, _, raw := output.GetRecord(dec)
		if ret != 0 {
			break
		}
		count++

		rec, ok := utils.ConvertToStringKeyMap(raw).(map[string]interface{})
		if !ok {
			log.Warn().Printf("skipping record of unexpected type %T\n", raw)
			continue
		}
		if err := c.AggregateRecord(rec); err != nil {
			log.Warn().Printf("record skipped: %v\n", err)
		}
	}

	log.Debug().Printf("aggregated %d records\n", count)
	return count
}
