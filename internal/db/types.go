package db

// DefaultListLimit is used when a CandidateFilter has no limit
const DefaultListLimit = 100

// MaxListLimit caps a single page of candidates
const MaxListLimit = 1000

// CandidateFilter holds optional filters for listing candidates
type CandidateFilter struct {
	Track     string
	ReadyOnly bool
	Limit     int
	Offset    int
}

// candidateRow is the raw candidates row before boundary normalization
type candidateRow struct {
	ID              string
	Name            string
	Skills          []byte
	Languages       []byte
	ExperienceYears int
	Track           string
	Ready           bool
	Summary         string
	CachedScore     []byte
}
