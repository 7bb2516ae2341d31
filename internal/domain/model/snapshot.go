package model

// VideoSnapshot is the assembled read-path view of a single video: the
// video itself, the uploader's display name, the neighbor IDs used for
// prev/next navigation, and the viewer's like flag when it was known at
// assembly time. Snapshots are what the cache stores; they are a lossy,
// time-bounded projection of store state and never authoritative.
type VideoSnapshot struct {
	Video      Video
	AuthorName string
	PrevID     *int64
	NextID     *int64
	Liked      bool
}

// VideoPage is one page of the video feed plus its pagination metadata.
type VideoPage struct {
	Page   int
	Limit  int
	Total  int64
	Videos []Video
}
