package deploy

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/arthur-debert/windeploy/pkg/diskpart"
	"github.com/arthur-debert/windeploy/pkg/errors"
	"github.com/arthur-debert/windeploy/pkg/executor"
	"github.com/arthur-debert/windeploy/pkg/filesystem"
	"github.com/arthur-debert/windeploy/pkg/letters"
	"github.com/arthur-debert/windeploy/pkg/logging"
	"github.com/arthur-debert/windeploy/pkg/source"
	"github.com/arthur-debert/windeploy/pkg/types"
	"github.com/arthur-debert/windeploy/pkg/wiminfo"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// SourceResolver mounts and locates image files
type SourceResolver interface {
	Resolve(ctx context.Context, ref types.SourceReference) (source.Resolution, error)
	Unmount(ctx context.Context, handle *types.MountHandle)
}

// Partitioner lays out the target disk and releases its letters
type Partitioner interface {
	Prepare(ctx context.Context, disk int, scheme types.Scheme, set letters.Set) executor.Result
	Cleanup(ctx context.Context, disk int, scheme types.Scheme, set letters.Set)
}

// ImageApplier writes an edition to a volume
type ImageApplier interface {
	Apply(ctx context.Context, imagePath string, index int, targetRoot string) executor.Result
}

// ImageLister reads the editions of an image file
type ImageLister interface {
	List(ctx context.Context, imagePath string) ([]types.ImageEntry, error)
}

// BootConfigurator writes boot files
type BootConfigurator interface {
	Configure(ctx context.Context, windowsRoot string, scheme types.Scheme, set letters.Set) executor.Result
}

// Programs are the tool names shown in dry-run plans
type Programs struct {
	DiskPart string
	DISM     string
	BCDBoot  string
}

// Options wires an Orchestrator
type Options struct {
	Resolver    SourceResolver
	Partitioner Partitioner
	Applier     ImageApplier
	Lister      ImageLister
	Boot        BootConfigurator

	// FS is where image files are read; defaults to the OS filesystem
	FS afero.Fs
	// Letters defaults to the fixed S/W pair
	Letters letters.Allocator
	// Lock defaults to the process-wide letters lock
	Lock *letters.Lock
	// RevalidateIndex checks the chosen edition exists before partitioning
	RevalidateIndex bool
	// Programs and PartitionSizes only feed dry-run plans; the components
	// own the real values
	Programs       Programs
	PartitionSizes diskpart.Sizes
	Logger         zerolog.Logger
}

// Orchestrator runs deployments
type Orchestrator struct {
	resolver    SourceResolver
	partitioner Partitioner
	applier     ImageApplier
	lister      ImageLister
	boot        BootConfigurator
	fs          afero.Fs
	letters     letters.Allocator
	lock        *letters.Lock
	revalidate  bool
	programs    Programs
	sizes       diskpart.Sizes
	validate    *validator.Validate
	logger      zerolog.Logger
	now         func() time.Time
}

// New creates an Orchestrator
func New(opts Options) *Orchestrator {
	logger := opts.Logger
	if logger.GetLevel() == zerolog.Disabled {
		logger = logging.GetLogger("deploy")
	}
	fs := opts.FS
	if fs == nil {
		fs = filesystem.NewOS()
	}
	alloc := opts.Letters
	if alloc == nil {
		alloc = letters.Fixed(letters.Default())
	}
	lock := opts.Lock
	if lock == nil {
		lock = letters.Process()
	}
	programs := opts.Programs
	if programs.DiskPart == "" {
		programs.DiskPart = "diskpart.exe"
	}
	if programs.DISM == "" {
		programs.DISM = "dism.exe"
	}
	if programs.BCDBoot == "" {
		programs.BCDBoot = "bcdboot.exe"
	}

	sizes := opts.PartitionSizes
	if sizes.EFI == 0 {
		sizes = diskpart.DefaultSizes()
	}

	return &Orchestrator{
		resolver:    opts.Resolver,
		partitioner: opts.Partitioner,
		applier:     opts.Applier,
		lister:      opts.Lister,
		boot:        opts.Boot,
		fs:          fs,
		letters:     alloc,
		lock:        lock,
		revalidate:  opts.RevalidateIndex,
		programs:    programs,
		sizes:       sizes,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
		logger:      logger,
		now:         time.Now,
	}
}

// Start runs the deployment on a new goroutine
func (o *Orchestrator) Start(ctx context.Context, req types.DeploymentRequest) *Run {
	q := newQueue()
	run := &Run{
		ID:     uuid.NewString(),
		queue:  q,
		events: make(chan types.Event),
		done:   make(chan struct{}),
	}

	go func() {
		defer close(run.done)
		defer q.close()
		run.outcome = o.run(ctx, run.ID, req, q.push)
	}()

	return run
}

// Run performs the deployment and returns its outcome. sink, when not nil,
// receives every progress event before Run returns.
func (o *Orchestrator) Run(ctx context.Context, req types.DeploymentRequest, sink Sink) types.Outcome {
	return o.run(ctx, uuid.NewString(), req, sink)
}

// deployment is the state of one run
type deployment struct {
	o       *Orchestrator
	id      string
	req     types.DeploymentRequest
	sink    Sink
	logger  zerolog.Logger
	handle  *types.MountHandle
	state   types.State
	started time.Time
}

func (d *deployment) emit(state types.State, detail string, format string, args ...interface{}) {
	d.state = state
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	d.logger.Info().Str("state", state.String()).Msg(msg)
	if d.sink != nil {
		d.sink(types.Event{
			DeploymentID: d.id,
			State:        state,
			Message:      msg,
			Detail:       detail,
			Time:         d.o.now(),
		})
	}
}

func (d *deployment) finish(succeeded bool, message string) types.Outcome {
	if succeeded {
		d.logger.Info().Dur("duration", time.Since(d.started)).Msg(message)
	} else {
		d.logger.Error().Str("failed_in", d.state.String()).Dur("duration", time.Since(d.started)).Msg(message)
	}
	d.emit(types.Done, "", "%s", message)
	return types.Outcome{Succeeded: succeeded, Message: message}
}

// unmount releases the disc image once; later calls do nothing
func (d *deployment) unmount(ctx context.Context) {
	if d.handle == nil {
		return
	}
	d.emit(types.Unmounting, "", msgUnmounting)
	d.o.resolver.Unmount(ctx, d.handle)
	d.handle = nil
}

func (o *Orchestrator) run(ctx context.Context, id string, req types.DeploymentRequest, sink Sink) types.Outcome {
	d := &deployment{
		o:       o,
		id:      id,
		req:     req,
		sink:    sink,
		logger:  o.logger.With().Str("deployment_id", id).Int("disk", req.DiskNumber).Logger(),
		state:   types.Idle,
		started: o.now(),
	}

	if err := o.checkRequest(req); err != nil {
		return d.finish(false, errors.GetMessage(err))
	}

	imagePath, outcome, ok := o.resolve(ctx, d)
	if !ok {
		return outcome
	}

	if _, err := o.checkImage(ctx, d, imagePath); err != nil {
		d.unmount(ctx)
		return d.finish(false, errors.GetMessage(err))
	}

	set, err := o.letters.Allocate()
	if err != nil {
		d.unmount(ctx)
		return d.finish(false, errors.GetMessage(err))
	}
	release, err := o.lock.TryAcquire()
	if err != nil {
		d.unmount(ctx)
		return d.finish(false, errors.GetMessage(err))
	}
	defer release()

	// no interrupt path once the disk is touched
	ctx = context.WithoutCancel(ctx)

	d.emit(types.Preparing, "", msgPreparing)
	res := o.partitioner.Prepare(ctx, req.DiskNumber, req.Scheme, set)
	if !res.Succeeded {
		d.unmount(ctx)
		return d.finish(false, MsgDiskPartFailed+diagnostic(res))
	}
	d.emit(types.Preparing, strings.TrimSpace(res.Stdout), msgPrepared, req.DiskNumber, req.Scheme)

	d.emit(types.Applying, "", msgApplying)
	res = o.applier.Apply(ctx, imagePath, req.Index, set.WindowsRoot())
	if !res.Succeeded {
		return o.abort(ctx, d, set, MsgApplyFailed+diagnostic(res))
	}
	d.emit(types.Applying, "", msgApplied)

	d.emit(types.ConfiguringBoot, "", msgConfiguring)
	res = o.boot.Configure(ctx, set.WindowsRoot(), req.Scheme, set)
	if !res.Succeeded {
		return o.abort(ctx, d, set, MsgBootFailed+diagnostic(res))
	}
	d.emit(types.ConfiguringBoot, "", msgConfigured)

	d.emit(types.CleaningUp, "", msgCleaningUp)
	o.partitioner.Cleanup(ctx, req.DiskNumber, req.Scheme, set)
	d.unmount(ctx)

	return d.finish(true, MsgSuccess)
}

// abort releases letters and the disc image after a failure past
// partitioning. Neither step can change the reported message.
func (o *Orchestrator) abort(ctx context.Context, d *deployment, set letters.Set, message string) types.Outcome {
	d.emit(types.CleaningUp, "", msgCleaningUp)
	o.partitioner.Cleanup(ctx, d.req.DiskNumber, d.req.Scheme, set)
	d.unmount(ctx)
	return d.finish(false, message)
}

// resolve runs ResolvingSource. On failure it returns the final outcome.
func (o *Orchestrator) resolve(ctx context.Context, d *deployment) (string, types.Outcome, bool) {
	ref := d.req.Source
	d.emit(types.ResolvingSource, "", msgResolving)

	if ref.Kind == types.DiscImage {
		o.preflight(d, ref.Path)
		d.emit(types.ResolvingSource, "", msgMounting)
	}

	res, err := o.resolver.Resolve(ctx, ref)
	if err != nil {
		msg := errors.GetMessage(err)
		if errors.IsErrorCode(err, errors.ErrMount) {
			msg = MsgMountFailed + msg
		}
		return "", d.finish(false, msg), false
	}
	d.handle = res.Handle

	if d.req.ImagePath != "" && d.req.ImagePath != res.ImagePath {
		// a disc image may come back on another drive letter than when its
		// editions were listed
		d.logger.Debug().
			Str("requested", d.req.ImagePath).
			Str("resolved", res.ImagePath).
			Msg("Using freshly resolved image path")
	}
	d.emit(types.ResolvingSource, "", msgResolved, res.ImagePath)
	return res.ImagePath, types.Outcome{}, true
}

func (o *Orchestrator) preflight(d *deployment, path string) {
	in := source.Inspect(o.fs, path)
	switch in.Verdict {
	case source.Found:
		d.emit(types.ResolvingSource, "", msgPreflightFound, in.Entry)
	case source.NotFound:
		d.emit(types.ResolvingSource, "", msgPreflightMiss, in.Reason)
	default:
		d.emit(types.ResolvingSource, "", msgPreflightSkip, in.Reason)
	}
}

// checkRequest validates the request before anything runs
func (o *Orchestrator) checkRequest(req types.DeploymentRequest) error {
	if err := o.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if stderrors.As(err, &verrs) && len(verrs) > 0 {
			return errors.New(errors.ErrPrecondition, fieldMessage(verrs[0])).
				WithDetail("field", verrs[0].Namespace())
		}
		return errors.Wrap(err, errors.ErrPrecondition, "invalid deployment request")
	}
	if !req.Confirmed {
		return errors.New(errors.ErrPrecondition, MsgNotConfirmed)
	}
	return nil
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.StructField() {
	case "Source", "Path":
		return "No source selected"
	case "Kind":
		return "Unsupported source type"
	case "Index":
		return "No edition selected"
	case "DiskNumber":
		return "No disk selected"
	case "Scheme":
		return fmt.Sprintf("Invalid partition scheme %q", fe.Value())
	default:
		return fmt.Sprintf("Invalid %s", fe.Field())
	}
}

// checkImage runs Validating: the image file must be readable and, when
// revalidation is on, must still contain the chosen edition, which is
// returned
func (o *Orchestrator) checkImage(ctx context.Context, d *deployment, imagePath string) (types.ImageEntry, error) {
	d.emit(types.Validating, "", msgValidating)

	if err := filesystem.Readable(o.fs, imagePath); err != nil {
		return types.ImageEntry{}, errors.Wrapf(err, errors.ErrPrecondition, "Image file %s is not readable: %v", imagePath, err)
	}
	if !o.revalidate {
		return types.ImageEntry{}, nil
	}

	entries, err := o.editions(ctx, d, imagePath)
	if err != nil {
		return types.ImageEntry{}, err
	}
	entry, found := wiminfo.Lookup(entries, d.req.Index)
	if !found {
		return types.ImageEntry{}, errors.Newf(errors.ErrPrecondition, "Edition index %d not found in %s", d.req.Index, imagePath).
			WithDetail("available", len(entries))
	}
	d.emit(types.Validating, "", msgEdition, entry.Index, entry.Name)
	return entry, nil
}

// editions reads the image's XML metadata and falls back to DISM when the
// header cannot be read directly
func (o *Orchestrator) editions(ctx context.Context, d *deployment, imagePath string) ([]types.ImageEntry, error) {
	entries, err := wiminfo.ReadEntries(o.fs, imagePath)
	if err == nil {
		return entries, nil
	}
	d.logger.Debug().Err(err).Msg("Reading image metadata directly failed, asking DISM")

	if o.lister == nil {
		return nil, errors.Wrap(err, errors.ErrPrecondition, "Cannot read editions from image")
	}
	entries, lerr := o.lister.List(ctx, imagePath)
	if lerr != nil {
		return nil, errors.Wrapf(lerr, errors.ErrPrecondition, "Cannot read editions from image: %s", errors.GetMessage(lerr))
	}
	return entries, nil
}

// diagnostic is what a failure message carries: the tool's own output, or
// the classified error when the tool printed nothing
func diagnostic(res executor.Result) string {
	if diag := res.Diagnostic(); diag != "" {
		return diag
	}
	if res.Err != nil {
		return errors.GetMessage(res.Err)
	}
	return fmt.Sprintf("exit code %d", res.ExitCode)
}
