package ws

import (
	"time"
)

type Channel string

const (
	ChannelEventCreated  Channel = "event.created"
	ChannelAlertStranger Channel = "alert.stranger"
	ChannelCameraOpen    Channel = "camera.open-request"
	ChannelDetectionLive Channel = "detection.live"
)

type Message struct {
	Channel   Channel     `json:"channel"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}
