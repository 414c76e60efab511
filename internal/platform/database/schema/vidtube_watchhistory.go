package schema

// WatchHistoryTable represents the 'vidtube.watchhistory' table
type WatchHistoryTable struct {
	Table     string
	ID        string
	UserID    string
	VideoID   string
	WatchedAt string
}

// WatchHistory is the schema definition for vidtube.watchhistory.
// ID is a bigserial; its order is the order of the history sequence.
var WatchHistory = WatchHistoryTable{
	Table:     "vidtube.watchhistory",
	ID:        "id",
	UserID:    "userid",
	VideoID:   "videoid",
	WatchedAt: "watchedat",
}
