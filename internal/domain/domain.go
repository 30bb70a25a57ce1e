package domain

// Show is a catalog entry for a television series. Identity is the ID;
// records are immutable once fetched.
type Show struct {
	ID      string
	Name    string
	Image   string
	Summary string
	URL     string
}

// Episode is one installment of a show, ordered by season and number. The
// owning show is not stored on the record; the episode cache key carries that
// association.
type Episode struct {
	ID      string
	Season  int
	Number  int
	Name    string
	Summary string
	Image   string
	URL     string
}
