package deploy

// Outcome messages. Tool diagnostics are appended verbatim.
const (
	MsgSuccess        = "Deployment completed successfully."
	MsgMountFailed    = "ISO mount failed: "
	MsgDiskPartFailed = "DiskPart failed: "
	MsgApplyFailed    = "DISM apply failed: "
	MsgBootFailed     = "bcdboot failed: "
	MsgNotConfirmed   = "Deployment was not confirmed"
)

// Progress lines
const (
	msgResolving      = "Resolving image source..."
	msgMounting       = "Mounting disc image..."
	msgResolved       = "Using image file %s"
	msgValidating     = "Checking image file and edition..."
	msgEdition        = "Edition %d: %s"
	msgPreparing      = "Preparing disk with DiskPart..."
	msgPrepared       = "Disk %d partitioned (%s)"
	msgApplying       = "Applying image with DISM... This can take a while."
	msgApplied        = "Image applied successfully."
	msgConfiguring    = "Configuring boot files (bcdboot)..."
	msgConfigured     = "Boot files created successfully."
	msgCleaningUp     = "Cleaning up temporary drive letters..."
	msgUnmounting     = "Unmounting disc image..."
	msgPreflightFound = "Disc image contains %s"
	msgPreflightSkip  = "Disc image pre-flight inconclusive: %s"
	msgPreflightMiss  = "Disc image pre-flight: %s"
)
