// Package audio provides sound playback for drop events.
// It uses the beep library to play WAV, OGG, and MP3 audio files
// with volume control and per-event sound configuration.
package audio
