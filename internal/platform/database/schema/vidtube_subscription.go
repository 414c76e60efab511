package schema

// SubscriptionTable represents the 'vidtube.subscriptions' table
type SubscriptionTable struct {
	Table        string
	ID           string
	SubscriberID string
	ChannelID    string
	CreatedAt    string
}

// Subscription is the schema definition for vidtube.subscriptions
var Subscription = SubscriptionTable{
	Table:        "vidtube.subscriptions",
	ID:           "id",
	SubscriberID: "subscriberid",
	ChannelID:    "channelid",
	CreatedAt:    "createdat",
}

// Columns returns all standard column names
func (t SubscriptionTable) Columns() []string {
	return []string{t.ID, t.SubscriberID, t.ChannelID, t.CreatedAt}
}
