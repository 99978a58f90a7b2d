// Package codec maps compression tags to encoders and decoders.
//
// Encoders are tuned for ratio, not speed: they run once at generation time.
// Decoders are created per call and never shared, so concurrent decodes do
// not interfere.
package codec
