package occupancy

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2015, 2, 4, 17, 51, 0, 0, time.UTC)

// csvWithTemperatures builds a dataset in the room-occupancy layout, one
// sample per minute, with a leading row id on every data line.
func csvWithTemperatures(temps ...float64) string {
	var b strings.Builder
	b.WriteString(`"date","Temperature","Humidity","Light","CO2","HumidityRatio","Occupancy"` + "\n")
	for i, temp := range temps {
		fmt.Fprintf(&b, "\"%d\",\"%s\",%g,27.27,426,721.25,0.0047,1\n",
			i+1, t0.Add(time.Duration(i)*time.Minute).Format(DateLayout), temp)
	}
	return b.String()
}

func mustParse(t *testing.T, s string) *Dataset {
	t.Helper()
	ds, err := Parse(strings.NewReader(s))
	require.NoError(t, err)
	return ds
}
