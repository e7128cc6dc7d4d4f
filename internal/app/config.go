package app

import (
	"io/fs"
	"time"

	"github.com/klabast/wb-services/planning-bilans/internal/config"
)

const (
	// Error messages
	msgEditModeDisabled     = "Edit mode disabled"
	msgUnauthorized         = "Unauthorized"
	msgInvalidBody          = "Invalid request body"
	msgInvalidIndex         = "Invalid index"
	msgInvalidDate          = "Invalid date format"
	msgInvalidFormat        = "Invalid format"
	msgInvalidLayoutQuery   = "days and slots must be non-negative integers"
	msgWeekOrDateRequired   = "week or date required"
	msgConfirmationRequired = "confirmation required"
	msgFailedToSave         = "Failed to save schedule"
	msgInternalServer       = "Internal server error"

	// ICS constants
	ICSProductID = "-//BTP CFA Marne//Planning Bilans//FR"
	ICSTimezone  = "Europe/Paris"
	ICSUIDDomain = "planning-bilans"

	// maxBodyBytes caps mutation request bodies.
	maxBodyBytes = 64 << 10
)

// Options configures a Server.
type Options struct {
	Mode  string
	Print config.PrintConfig
	// EditorHTML is served at / in edit mode.
	EditorHTML []byte
	// Static is served under /static when set.
	Static fs.FS
	Auth   *BasicAuth
	Now    func() time.Time
}
