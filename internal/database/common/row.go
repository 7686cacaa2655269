package common

// Row is one generated record. Columns keep the order values were set in, which
// is the table's declared column order.
type Row struct {
	Columns []string
	Values  []interface{}
}

func NewRow(size int) *Row {
	return &Row{
		Columns: make([]string, 0, size),
		Values:  make([]interface{}, 0, size),
	}
}

// Set assigns col, replacing an earlier value for the same column.
func (r *Row) Set(col string, val interface{}) {
	for i, c := range r.Columns {
		if c == col {
			r.Values[i] = val
			return
		}
	}
	r.Columns = append(r.Columns, col)
	r.Values = append(r.Values, val)
}

func (r *Row) Get(col string) (interface{}, bool) {
	for i, c := range r.Columns {
		if c == col {
			return r.Values[i], true
		}
	}
	return nil, false
}

func (r *Row) Map() map[string]interface{} {
	m := make(map[string]interface{}, len(r.Columns))
	for i, c := range r.Columns {
		m[c] = r.Values[i]
	}
	return m
}
