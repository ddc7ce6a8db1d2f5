package intern

// Stats is a point-in-time view of interner usage. Values are gathered
// without a global lock and may be slightly inconsistent with each other.
type Stats struct {
	Distinct int
	Bytes    int64
	Lookups  uint64
	Hits     uint64
}

// HitRate returns the fraction of Intern calls that found existing text.
func (s Stats) HitRate() float64 {
	if s.Lookups == 0 {
		return 0
	}
	return float64(s.Hits) / float64(s.Lookups)
}

// Stats returns current usage counters.
func (in *Interner) Stats() Stats {
	return Stats{
		Distinct: int(in.count.Load()),
		Bytes:    in.bytes.Load(),
		Lookups:  in.lookups.Load(),
		Hits:     in.hits.Load(),
	}
}
