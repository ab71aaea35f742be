package repository

// InsertEach attempts every record of an unordered batch. A failed record is
// recorded and the loop moves on; the batch always runs to the last record.
func InsertEach(n int, id func(i int) string, insert func(i int) error) *BatchResult {
	res := &BatchResult{}
	for i := 0; i < n; i++ {
		if err := insert(i); err != nil {
			res.Failures = append(res.Failures, InsertFailure{Index: i, ID: id(i), Err: err})
			continue
		}
		res.Inserted++
	}
	return res
}
