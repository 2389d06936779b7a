package dto

import "sentinel/internal/model"

// WearableRequest 穿戴设备接口统一请求体
type WearableRequest struct {
	Action            string          `json:"action" binding:"required"`
	DeviceID          *int64          `json:"device_id,omitempty"`
	Name              string          `json:"name,omitempty"`
	DeviceType        string          `json:"device_type,omitempty"`
	MacAddress        *string         `json:"mac_address,omitempty"`
	BluetoothDeviceID *string         `json:"bluetooth_device_id,omitempty"`
	BatteryLevel      *int            `json:"battery_level,omitempty"`
	FirmwareVersion   *string         `json:"firmware_version,omitempty"`
	IsConnected       *bool           `json:"is_connected,omitempty"`
	HeartRate         *int            `json:"heart_rate,omitempty"`
	GestureType       string          `json:"gesture_type,omitempty"`
	GestureConfig     map[string]bool `json:"gesture_config,omitempty"`
	Location          *model.GeoPoint `json:"location,omitempty"`
}
