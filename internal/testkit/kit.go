package testkit

import (
	"strings"

	"gridlens/adapters/tabular"
	"gridlens/domain/dataset"
)

// SalesCSV is the shared fixture used across package tests: two
// categorical columns, two numeric columns that move together, and a
// sparsely filled text column.
const SalesCSV = `region,product,units,revenue,note
North,Widget,10,105,first quarter spike
South,Gadget,4,38,
East,Widget,7,71,steady
West,Doohickey,2,19,slow start
North,Gadget,12,122,best month
South,Widget,6,58,
East,Doohickey,9,92,strong eastern demand
West,Widget,3,33,
North,Widget,8,79,repeat buyers
South,Doohickey,5,52,
East,Gadget,11,108,holiday bump
West,Gadget,1,12,single unit
`

// SalesDataset parses SalesCSV through the real reader so fixtures go
// through the same trimming and type inference as uploads.
func SalesDataset() (*dataset.Dataset, error) {
	return tabular.NewReader().ReadCSV(strings.NewReader(SalesCSV), "sales.csv")
}
