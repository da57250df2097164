// Package mqtt provides an MQTT broker adaptor and presence drivers.
//
// The adaptor wraps paho.mqtt.golang: Connect dials the broker with a
// bounded wait, Disconnect quiesces in-flight messages, and Publish is the
// primitive drivers build on. Auto-reconnect with exponential backoff is
// left to paho once the first connect succeeds.
//
// Registered types:
//   - adaptor "mqtt"
//   - driver  "mqtt.announcer": retained online/offline presence messages
package mqtt
