package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"sentinel/internal/model"
)

func TestBuildSMSBody(t *testing.T) {
	msg := model.SMSFanoutMessage{
		Level:    model.AlertLevelCritical,
		UserName: "Alice Chen",
	}
	body := BuildSMSBody(msg)
	assert.Contains(t, body, "EMERGENCY [critical]")
	assert.Contains(t, body, "Alice Chen")
	assert.Contains(t, body, "Location: Unknown")
	assert.NotContains(t, body, "maps.google.com")

	msg.Location = &model.GeoPoint{Lat: 39.9, Lng: 116.4}
	located := BuildSMSBody(msg)
	assert.Contains(t, located, "maps.google.com")
	assert.NotContains(t, located, "Unknown")
}

// 静默标记不得影响短信文案
func TestBuildSMSBodyIgnoresSilentFlag(t *testing.T) {
	loud := model.SMSFanoutMessage{Level: model.AlertLevelCritical, UserName: "Alice Chen"}
	silent := loud
	silent.Silent = true

	assert.Equal(t, BuildSMSBody(loud), BuildSMSBody(silent))
}
