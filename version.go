package deskhand

// Version is the semantic version of the deskhand module.
const Version = "0.1.0"
