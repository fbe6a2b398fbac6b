// Package docchat provides a "chat with your documentation" tool.
// It downloads documentation pages, splits and embeds them into a vector
// index, and answers questions about them one conversational turn at a time
// with a hosted language model grounded on the retrieved chunks.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., weaviate/, gemini/, bubbletea/).
package docchat
