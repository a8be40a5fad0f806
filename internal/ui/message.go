package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/chordgen/internal/models"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgCatalogLoaded MsgKind = iota
	MsgGenerationDone
	MsgDownloadDone
	MsgRecorded
	MsgMarkedSaved
)

type catalogData struct {
	labels []models.ChordLabel
	err    error
}

type generationData struct {
	req    models.GenerationRequest
	result *models.GenerationResult
	err    error
}

type downloadData struct {
	ref        models.DownloadReference
	generation *models.Generation
	dest       string
	err        error
}

type recordedData struct {
	generation *models.Generation
	err        error
}

// catalogLoadedMsg is the constructor for [MsgCatalogLoaded]
func catalogLoadedMsg(labels []models.ChordLabel, err error) Msg {
	return Msg{kind: MsgCatalogLoaded, data: catalogData{labels, err}}
}

// generationDoneMsg is the constructor for [MsgGenerationDone]
func generationDoneMsg(req models.GenerationRequest, result *models.GenerationResult, err error) Msg {
	return Msg{kind: MsgGenerationDone, data: generationData{req, result, err}}
}

// downloadDoneMsg is the constructor for [MsgDownloadDone]
func downloadDoneMsg(ref models.DownloadReference, g *models.Generation, dest string, err error) Msg {
	return Msg{kind: MsgDownloadDone, data: downloadData{ref, g, dest, err}}
}

// recordedMsg is the constructor for [MsgRecorded]
func recordedMsg(g *models.Generation, err error) Msg {
	return Msg{kind: MsgRecorded, data: recordedData{g, err}}
}

// markedSavedMsg is the constructor for [MsgMarkedSaved]
func markedSavedMsg(err error) Msg {
	return Msg{kind: MsgMarkedSaved, data: err}
}
