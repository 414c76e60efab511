package schema

// VideoTable represents the 'vidtube.videos' table
type VideoTable struct {
	Table       string
	ID          string
	OwnerID     string
	Title       string
	Description string
	VideoFile   string
	Thumbnail   string
	Duration    string
	Views       string
	IsPublished string
	CreatedAt   string
	UpdatedAt   string
}

// Video is the schema definition for vidtube.videos
var Video = VideoTable{
	Table:       "vidtube.videos",
	ID:          "id",
	OwnerID:     "ownerid",
	Title:       "title",
	Description: "description",
	VideoFile:   "videofile",
	Thumbnail:   "thumbnail",
	Duration:    "duration",
	Views:       "views",
	IsPublished: "ispublished",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}

// Columns returns all standard column names
func (t VideoTable) Columns() []string {
	return []string{
		t.ID, t.OwnerID, t.Title, t.Description, t.VideoFile, t.Thumbnail,
		t.Duration, t.Views, t.IsPublished, t.CreatedAt, t.UpdatedAt,
	}
}
