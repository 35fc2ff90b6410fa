package pubsub

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/bouquet-backend/pkg/config"
)

func TestResourceNames(t *testing.T) {
	c := &Client{projectID: "bouquet-dev"}

	require.Equal(t, "projects/bouquet-dev/topics/bouquet-order-events", c.topicResourceName(" bouquet-order-events "))
	require.Equal(t, "projects/other/topics/x", c.topicResourceName("projects/other/topics/x"))
	require.Equal(t, "projects/bouquet-dev/subscriptions/viz", c.subscriptionResourceName("viz"))
	require.Equal(t, "projects/other/subscriptions/viz", c.subscriptionResourceName("projects/other/subscriptions/viz"))
	require.Empty(t, c.subscriptionResourceName(""))

	var nilClient *Client
	require.Empty(t, nilClient.topicResourceName("x"))
	require.Nil(t, nilClient.Publisher("x"))
	require.Error(t, nilClient.Ping(t.Context()))
	require.NoError(t, nilClient.Close())
}

func TestSubscriptionNames(t *testing.T) {
	require.Equal(t, []string{"viz"}, subscriptionNames(config.PubSubConfig{VisualizationSubscription: " viz "}))
	require.Empty(t, subscriptionNames(config.PubSubConfig{}))
}
