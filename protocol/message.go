// Package protocol defines the JSON wire messages queueserver and client
// exchange over HTTP.
package protocol

// PushRequest carries one value to insert.
type PushRequest struct {
	Value float64 `json:"value"`
}

// PushResponse reports the index the inserted value settled at.
type PushResponse struct {
	Index int `json:"index"`
}

// PopResponse carries the removed maximum, or Empty if there was none.
type PopResponse struct {
	Value float64 `json:"value"`
	Empty bool    `json:"empty"`
}

// TopResponse carries the current maximum without removing it.
type TopResponse struct {
	Value float64 `json:"value"`
	Empty bool    `json:"empty"`
}

// FindRequest carries the value a client wants to locate.
type FindRequest struct {
	Value float64 `json:"value"`
}

// FindResponse reports whether Value was present and, if so, where.
type FindResponse struct {
	Index int  `json:"index"`
	Found bool `json:"found"`
}

// EraseRequest carries the value a client wants removed, if present.
type EraseRequest struct {
	Value float64 `json:"value"`
}

// EraseResponse reports whether an element was actually removed.
type EraseResponse struct {
	Erased bool `json:"erased"`
}

// StatsResponse summarises the server's beap.
type StatsResponse struct {
	Size     int `json:"size"`
	Capacity int `json:"capacity"`
	Rows     int `json:"rows"`
}
