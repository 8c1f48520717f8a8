package model

// Protocol is the ALPN identifier negotiated by client and server.
const Protocol = "tickq-jobs"

// MaxSteps bounds the number of steps a single job may ask for.
const MaxSteps = 1 << 20
