package ipc

// Inbound events, sent by the front end.
const (
	OpenFiddle      = "FS_OPEN_FIDDLE"
	OpenTemplate    = "FS_OPEN_TEMPLATE"
	SaveFiddle      = "FS_SAVE_FIDDLE"
	SaveFiddleForge = "FS_SAVE_FIDDLE_FORGE"
	Reply           = "REPLY"
)

// Outbound events, sent to the front end.
const (
	OpenFiddleDialog         = "FS_OPEN_FIDDLE_DIALOG"
	SaveFiddleDialog         = "FS_SAVE_FIDDLE_DIALOG"
	SaveFiddleError          = "FS_SAVE_FIDDLE_ERROR"
	VerifyCreateCustomEditor = "VERIFY_CREATE_CUSTOM_EDITOR"
	FiddleReplaced           = "FIDDLE_REPLACED"
	FiddleSaved              = "FIDDLE_SAVED"
	FiddleStopped            = "FIDDLE_STOPPED"
)
