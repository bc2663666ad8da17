package eskit

import (
	"context"
	"time"

	"github.com/thalesfsp/customerror"
)

//////
// Const, vars, and types.
//////

// ConnectOptions defines the options for Connect.
//
// NOTE: Zero values fall back to the documented defaults.
type ConnectOptions struct {
	// Host to try to connect to.
	Host string `default:"localhost" json:"host"`

	// ElasticPort to try to connect to, or to start Elasticsearch on.
	ElasticPort int `default:"9200" json:"elasticPort"`

	// KibanaPort to try to connect to, or to start Kibana on.
	KibanaPort int `default:"5601" json:"kibanaPort"`

	// KibanaHost, when empty, falls back to Host.
	KibanaHost string `json:"kibanaHost"`

	// Protocol to use, http or https.
	Protocol string `default:"http" json:"protocol"`

	// VerifyCerts controls TLS certificate verification.
	VerifyCerts bool `json:"verifyCerts"`

	// Prefix of the container names and the network, docker-compose style:
	// <prefix>_elastic, <prefix>_kibana, <prefix>_network.
	Prefix string `default:"eskit" json:"prefix"`

	// SkipOrchestration disables the container fallback tiers entirely.
	SkipOrchestration bool `json:"skipOrchestration"`

	// StartStack permits launching a new containerized stack when none is
	// found.
	StartStack bool `json:"startStack"`

	// StackVersion of the stack images to launch.
	StackVersion string `default:"8.17.1" json:"stackVersion"`

	// MountVolumePrefix is a host path under which a launched stack persists
	// its data. Empty means no persistence across container restarts.
	MountVolumePrefix string `json:"mountVolumePrefix"`

	// WaitTimeout bounds the wait for a launched stack to come alive.
	WaitTimeout time.Duration `default:"120s" json:"waitTimeout"`

	// FailOnNotAvailable turns the absent-stack outcome into an error
	// instead of a nil sentinel.
	FailOnNotAvailable bool `json:"failOnNotAvailable"`

	// Orchestrator locates and launches containerized stacks. Defaults to
	// the Docker orchestrator.
	Orchestrator Orchestrator `json:"-"`
}

//////
// Exported functionalities.
//////

// Connect locates a running Elasticsearch + Kibana stack, in three tiers:
// direct probe of host/port, container lookup by name prefix, and finally a
// container launch when permitted. The resolved stack becomes the
// process-wide default. When no stack resolves, the outcome is an error if
// FailOnNotAvailable is set, and a logged nil sentinel otherwise.
//
//nolint:gocognit
func Connect(ctx context.Context, opts *ConnectOptions) (*Stack, error) {
	if opts == nil {
		opts = &ConnectOptions{}
	}

	normalizeConnectOptions(opts)

	stack, err := NewStack(&StackOptions{
		Host:        opts.Host,
		ElasticPort: opts.ElasticPort,
		KibanaPort:  opts.KibanaPort,
		KibanaHost:  opts.KibanaHost,
		Protocol:    opts.Protocol,
		VerifyCerts: opts.VerifyCerts,

		SkipDefaultRegistration: true,
	})
	if err != nil {
		return nil, err
	}

	// Tier 1: direct probe.
	if stack.Alive(ctx) {
		logger.Infolnf("elasticsearch already running on %s", stack.URL())

		SetDefaultStack(stack)

		return stack, nil
	}

	if opts.SkipOrchestration {
		return notAvailable(opts, "no running elasticsearch found on "+stack.URL())
	}

	orchestrator := opts.Orchestrator

	if orchestrator == nil {
		o, err := NewDockerOrchestrator()
		if err != nil {
			logger.Debuglnf("connect: %s", err)

			return notAvailable(opts, "no running elasticsearch found on "+stack.URL()+", and no orchestrator is reachable")
		}

		orchestrator = o
	}

	// Tier 2: container lookup by naming convention.
	logger.Infolnf(
		"no elasticsearch on %s, looking for containers with prefix %q",
		stack.URL(), opts.Prefix,
	)

	found, err := orchestrator.FindStack(ctx, opts.Prefix)
	if err != nil {
		logger.Debuglnf("connect: find stack: %s", err)
	}

	if found != nil && found.Alive(ctx) {
		logger.Infolnf("%s", found)

		SetDefaultStack(found)

		return found, nil
	}

	// Tier 3: container launch.
	if !opts.StartStack {
		return notAvailable(
			opts,
			"no running elasticsearch found on containers with prefix "+opts.Prefix,
		)
	}

	logger.Infolnf("no containers with prefix %q; starting a new stack", opts.Prefix)

	started, err := orchestrator.StartStack(ctx, &StartStackOptions{
		Prefix:            opts.Prefix,
		Version:           opts.StackVersion,
		MountVolumePrefix: opts.MountVolumePrefix,
		ElasticPort:       opts.ElasticPort,
		KibanaPort:        opts.KibanaPort,
	})
	if err != nil {
		if opts.FailOnNotAvailable {
			return nil, ErrorCatalog.
				MustGet(ErrFailedToStartStack).
				NewFailedToError(customerror.WithError(err))
		}

		logger.Warnlnf("failed to start a stack: %s", err)

		return nil, nil
	}

	if ok, err := started.WaitFor(
		ctx,
		opts.WaitTimeout,
		2*time.Second,
		opts.FailOnNotAvailable,
	); !ok {
		if err != nil {
			return nil, err
		}

		return notAvailable(opts, "started stack did not become alive in time")
	}

	logger.Infolnf("%s", started)

	SetDefaultStack(started)

	return started, nil
}

//////
// Internal functionalities.
//////

// notAvailable implements the absent-stack outcome: error when configured to
// fail, otherwise a logged nil sentinel.
func notAvailable(opts *ConnectOptions, msg string) (*Stack, error) {
	if opts.FailOnNotAvailable {
		return nil, ErrorCatalog.
			MustGet(ErrNoStackAvailable).
			NewFailedToError(customerror.WithField("detail", msg))
	}

	logger.Infolnf("%s", msg)

	return nil, nil
}

func normalizeConnectOptions(opts *ConnectOptions) {
	if opts.Host == "" {
		opts.Host = "localhost"
	}

	if opts.ElasticPort == 0 {
		opts.ElasticPort = 9200
	}

	if opts.KibanaPort == 0 {
		opts.KibanaPort = 5601
	}

	if opts.Protocol == "" {
		opts.Protocol = "http"
	}

	if opts.Prefix == "" {
		opts.Prefix = "eskit"
	}

	if opts.StackVersion == "" {
		opts.StackVersion = "8.17.1"
	}

	if opts.WaitTimeout == 0 {
		opts.WaitTimeout = 120 * time.Second
	}
}
