package pkg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRosterEventKeyGroupsByKindAndID(t *testing.T) {
	assert.Equal(t, "wash:7", rosterEventKey("wash", 7))
	assert.Equal(t, "carpool:7", rosterEventKey("carpool", 7))
	// 不同类别同 ID 不能落到同一个键上
	assert.NotEqual(t, rosterEventKey("locker", 7), rosterEventKey("wash", 7))
}

func TestNewRosterEventWriter(t *testing.T) {
	w := NewRosterEventWriter(KafkaConfig{Brokers: []string{"127.0.0.1:9092"}, Topic: "roster-events"})
	require.NotNil(t, w.writer)
	assert.Equal(t, "roster-events", w.writer.Topic)
	assert.NoError(t, w.Close())

	var nilWriter *RosterEventWriter
	assert.NoError(t, nilWriter.Close())
}
