package ecs

// JoinRow is one entity present in every joined table, with its row index in
// each table (in argument order).
type JoinRow struct {
	ID   EntityID
	Rows []int
}

// Join is an inner join on the entity column. Results follow the row order of
// the first table. A nil table yields no rows.
func Join(tables ...*Table) []JoinRow {
	if len(tables) == 0 {
		return nil
	}
	for _, t := range tables {
		if t == nil || t.Len() == 0 {
			return nil
		}
	}
	var out []JoinRow
	for row, id := range tables[0].ids {
		rows := make([]int, len(tables))
		rows[0] = row
		match := true
		for i, t := range tables[1:] {
			r, ok := t.rows[id]
			if !ok {
				match = false
				break
			}
			rows[i+1] = r
		}
		if match {
			out = append(out, JoinRow{ID: id, Rows: rows})
		}
	}
	return out
}

// JoinRead is Join over read-only handles.
func JoinRead(tables ...ReadTable) []JoinRow {
	raw := make([]*Table, len(tables))
	for i, t := range tables {
		raw[i] = t.t
	}
	return Join(raw...)
}
