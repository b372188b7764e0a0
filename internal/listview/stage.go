package listview

// StageOf extracts the lifecycle stage of a record.
type StageOf[T any] func(T) string

// FilterByStage returns the records whose stage equals stage exactly.
// An empty stage selects nothing.
func FilterByStage[T any](records []T, stage string, stageOf StageOf[T]) []T {
	out := make([]T, 0)
	if stage == "" {
		return out
	}
	for _, rec := range records {
		if stageOf(rec) == stage {
			out = append(out, rec)
		}
	}
	return out
}

// Partition splits records into one bucket per known stage. Records whose
// stage is not in known are returned separately and never join a bucket.
// Every record lands in exactly one place and bucket order follows input order.
func Partition[T any](records []T, known []string, stageOf StageOf[T]) (map[string][]T, []T) {
	buckets := make(map[string][]T, len(known))
	for _, stage := range known {
		buckets[stage] = []T{}
	}

	var unrecognized []T
	for _, rec := range records {
		stage := stageOf(rec)
		if _, ok := buckets[stage]; ok {
			buckets[stage] = append(buckets[stage], rec)
			continue
		}
		unrecognized = append(unrecognized, rec)
	}
	return buckets, unrecognized
}

// CountByStage returns the bucket sizes of Partition.
func CountByStage[T any](records []T, known []string, stageOf StageOf[T]) map[string]int {
	counts := make(map[string]int, len(known))
	for _, stage := range known {
		counts[stage] = 0
	}
	for _, rec := range records {
		stage := stageOf(rec)
		if _, ok := counts[stage]; ok {
			counts[stage]++
		}
	}
	return counts
}
