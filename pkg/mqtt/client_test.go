package mqtt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopicsMatch(t *testing.T) {
	tests := []struct {
		filter string
		topic  string
		want   bool
	}{
		{"sentinel/v1/ping/ALPHA", "sentinel/v1/ping/ALPHA", true},
		{"sentinel/v1/ping/+", "sentinel/v1/ping/ALPHA", true},
		{"sentinel/v1/ping/+", "sentinel/v1/ping/ALPHA/x", false},
		{"sentinel/v1/#", "sentinel/v1/ping/ALPHA", true},
		{"sentinel/v1/alert/+", "sentinel/v1/ping/ALPHA", false},
		{"sentinel/v1/ping", "sentinel/v1/ping/ALPHA", false},
	}

	for _, tt := range tests {
		t.Run(tt.filter+"~"+tt.topic, func(t *testing.T) {
			assert.Equal(t, tt.want, topicsMatch(tt.filter, tt.topic))
		})
	}
}

func TestTopicFilterStripsSharePrefix(t *testing.T) {
	assert.Equal(t, "sentinel/v1/ping/+", topicFilter("$share/hub/sentinel/v1/ping/+"))
	assert.Equal(t, "sentinel/v1/ping/+", topicFilter("sentinel/v1/ping/+"))
}

func TestNewClientValidatesConfig(t *testing.T) {
	_, err := NewClient(nil)
	require.Error(t, err)

	_, err = NewClient(&ClientConfig{BrokerURL: "http://broker:1883"})
	require.Error(t, err)

	c, err := NewClient(&ClientConfig{BrokerURL: "tcp://broker:1883"})
	require.NoError(t, err)
	assert.False(t, c.IsConnected())

	pc := c.(*pahoClient)
	assert.Equal(t, uint16(60), pc.cfg.KeepAlive)
	assert.Equal(t, 64, cap(pc.slots))
}
