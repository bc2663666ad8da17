package eskit

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/client"
	"github.com/docker/go-connections/nat"
	"github.com/thalesfsp/customerror"
)

//////
// Const, vars, and types.
//////

// Container naming convention, docker-compose style.
const (
	elasticSuffix = "_elastic"
	kibanaSuffix  = "_kibana"
	networkSuffix = "_network"
)

// Official image repositories.
const (
	elasticImage = "docker.elastic.co/elasticsearch/elasticsearch"
	kibanaImage  = "docker.elastic.co/kibana/kibana"
)

// Container-internal service ports.
const (
	elasticInternalPort = 9200
	kibanaInternalPort  = 5601
)

// StartStackOptions defines the options for launching a containerized stack.
type StartStackOptions struct {
	// Prefix of the container names and the network.
	Prefix string `default:"eskit" json:"prefix"`

	// Version tag of the stack images.
	Version string `default:"8.17.1" json:"version"`

	// MountVolumePrefix is a host path under which the stack persists its
	// data. Empty means no persistence.
	MountVolumePrefix string `json:"mountVolumePrefix"`

	// ElasticPort published on the host.
	ElasticPort int `default:"9200" json:"elasticPort"`

	// KibanaPort published on the host.
	KibanaPort int `default:"5601" json:"kibanaPort"`
}

// Orchestrator locates and launches containerized stacks. Implementations
// return handles pointing at the host-published ports.
type Orchestrator interface {
	// FindStack looks up an existing stack by container name prefix. A nil
	// stack without an error means nothing matched.
	FindStack(ctx context.Context, prefix string) (*Stack, error)

	// StartStack launches a new containerized stack. The returned handle may
	// not be alive yet; callers are expected to WaitFor it.
	StartStack(ctx context.Context, opts *StartStackOptions) (*Stack, error)
}

// DockerOrchestrator implements Orchestrator on the Docker Engine API.
type DockerOrchestrator struct {
	cli *client.Client
}

//////
// Methods.
//////

// FindStack looks for running containers named <prefix>_elastic and
// <prefix>_kibana and builds a handle from their host-published ports.
func (d *DockerOrchestrator) FindStack(ctx context.Context, prefix string) (*Stack, error) {
	containers, err := d.cli.ContainerList(ctx, container.ListOptions{
		All: true,
		Filters: filters.NewArgs(
			filters.Arg("name", prefix),
		),
	})
	if err != nil {
		return nil, ErrorCatalog.
			MustGet(ErrFailedToFindStack).
			NewFailedToError(customerror.WithError(err))
	}

	elasticPort := hostPort(containers, prefix+elasticSuffix, elasticInternalPort)
	if elasticPort == 0 {
		return nil, nil
	}

	kibanaPort := hostPort(containers, prefix+kibanaSuffix, kibanaInternalPort)
	if kibanaPort == 0 {
		return nil, nil
	}

	return NewStack(&StackOptions{
		Host:        "localhost",
		ElasticPort: elasticPort,
		KibanaPort:  kibanaPort,

		SkipDefaultRegistration: true,
	})
}

// StartStack pulls the official images, creates the stack network, and starts
// single-node Elasticsearch and Kibana containers.
func (d *DockerOrchestrator) StartStack(
	ctx context.Context,
	opts *StartStackOptions,
) (*Stack, error) {
	if opts == nil {
		opts = &StartStackOptions{}
	}

	if opts.Prefix == "" {
		opts.Prefix = "eskit"
	}

	if opts.Version == "" {
		opts.Version = "8.17.1"
	}

	if opts.ElasticPort == 0 {
		opts.ElasticPort = elasticInternalPort
	}

	if opts.KibanaPort == 0 {
		opts.KibanaPort = kibanaInternalPort
	}

	if err := process(opts); err != nil {
		return nil, customerror.NewInvalidError(
			"start stack options",
			customerror.WithError(err),
		)
	}

	networkName := opts.Prefix + networkSuffix

	if err := d.ensureNetwork(ctx, networkName); err != nil {
		return nil, err
	}

	elasticName := opts.Prefix + elasticSuffix

	if err := d.runContainer(ctx, containerSpec{
		name:    elasticName,
		image:   elasticImage + ":" + opts.Version,
		network: networkName,
		env: []string{
			"discovery.type=single-node",
			"bootstrap.memory_lock=true",
			"ES_JAVA_OPTS=-Xms512m -Xmx512m",
			"xpack.security.enabled=false",
		},
		internalPort: elasticInternalPort,
		hostPort:     opts.ElasticPort,
		bind:         dataBind(opts.MountVolumePrefix, "elasticsearch", "/usr/share/elasticsearch/data"),
	}); err != nil {
		return nil, err
	}

	if err := d.runContainer(ctx, containerSpec{
		name:    opts.Prefix + kibanaSuffix,
		image:   kibanaImage + ":" + opts.Version,
		network: networkName,
		env: []string{
			fmt.Sprintf("ELASTICSEARCH_HOSTS=http://%s:%d", elasticName, elasticInternalPort),
		},
		internalPort: kibanaInternalPort,
		hostPort:     opts.KibanaPort,
		bind:         dataBind(opts.MountVolumePrefix, "kibana", "/usr/share/kibana/data"),
	}); err != nil {
		return nil, err
	}

	return NewStack(&StackOptions{
		Host:        "localhost",
		ElasticPort: opts.ElasticPort,
		KibanaPort:  opts.KibanaPort,

		SkipDefaultRegistration: true,
	})
}

// containerSpec is the subset of container configuration the stack needs.
type containerSpec struct {
	name         string
	image        string
	network      string
	env          []string
	internalPort int
	hostPort     int
	bind         string
}

// ensureNetwork creates the stack network when it does not exist yet.
func (d *DockerOrchestrator) ensureNetwork(ctx context.Context, name string) error {
	if _, err := d.cli.NetworkInspect(ctx, name, network.InspectOptions{}); err == nil {
		return nil
	}

	if _, err := d.cli.NetworkCreate(ctx, name, network.CreateOptions{Driver: "bridge"}); err != nil {
		return ErrorCatalog.
			MustGet(ErrFailedToStartStack).
			NewFailedToError(
				customerror.WithError(err),
				customerror.WithField("network", name),
			)
	}

	return nil
}

// runContainer pulls the image, then creates and starts the container.
func (d *DockerOrchestrator) runContainer(ctx context.Context, spec containerSpec) error {
	reader, err := d.cli.ImagePull(ctx, spec.image, image.PullOptions{})
	if err != nil {
		return ErrorCatalog.
			MustGet(ErrFailedToStartStack).
			NewFailedToError(
				customerror.WithError(err),
				customerror.WithField("image", spec.image),
			)
	}

	// The pull completes when its progress stream is drained.
	//nolint:errcheck
	io.Copy(io.Discard, reader)

	reader.Close()

	internal := nat.Port(fmt.Sprintf("%d/tcp", spec.internalPort))

	hostConfig := &container.HostConfig{
		NetworkMode: container.NetworkMode(spec.network),
		PortBindings: nat.PortMap{
			internal: []nat.PortBinding{
				{
					HostIP:   "0.0.0.0",
					HostPort: strconv.Itoa(spec.hostPort),
				},
			},
		},
	}

	if spec.bind != "" {
		hostConfig.Binds = []string{spec.bind}
	}

	created, err := d.cli.ContainerCreate(
		ctx,
		&container.Config{
			Image:        spec.image,
			Env:          spec.env,
			ExposedPorts: nat.PortSet{internal: struct{}{}},
		},
		hostConfig,
		nil,
		nil,
		spec.name,
	)
	if err != nil {
		return ErrorCatalog.
			MustGet(ErrFailedToStartStack).
			NewFailedToError(
				customerror.WithError(err),
				customerror.WithField("container", spec.name),
			)
	}

	if err := d.cli.ContainerStart(ctx, created.ID, container.StartOptions{}); err != nil {
		return ErrorCatalog.
			MustGet(ErrFailedToStartStack).
			NewFailedToError(
				customerror.WithError(err),
				customerror.WithField("container", spec.name),
			)
	}

	logger.Infolnf("started container %q (%s)", spec.name, spec.image)

	return nil
}

//////
// Internal functionalities.
//////

// hostPort returns the host-published port of the named running container, or
// zero when the container is absent, stopped, or unpublished.
func hostPort(containers []types.Container, name string, internalPort int) int {
	for _, c := range containers {
		if !containerNamed(c, name) {
			continue
		}

		if !strings.EqualFold(c.State, "running") {
			return 0
		}

		for _, p := range c.Ports {
			if int(p.PrivatePort) == internalPort && p.PublicPort != 0 {
				return int(p.PublicPort)
			}
		}

		return 0
	}

	return 0
}

// containerNamed reports whether the container carries the given name. The
// engine prefixes names with a slash.
func containerNamed(c types.Container, name string) bool {
	for _, n := range c.Names {
		if strings.TrimPrefix(n, "/") == name {
			return true
		}
	}

	return false
}

// dataBind builds a host bind mount under the volume prefix, or empty when
// persistence is disabled.
func dataBind(mountVolumePrefix, service, target string) string {
	if mountVolumePrefix == "" {
		return ""
	}

	return strings.TrimSuffix(mountVolumePrefix, "/") + "/" + service + ":" + target
}

//////
// Factory.
//////

// NewDockerOrchestrator creates an orchestrator backed by the local Docker
// daemon, configured from the environment.
func NewDockerOrchestrator() (*DockerOrchestrator, error) {
	cli, err := client.NewClientWithOpts(
		client.FromEnv,
		client.WithAPIVersionNegotiation(),
	)
	if err != nil {
		return nil, ErrorCatalog.
			MustGet(ErrFailedToFindStack).
			NewFailedToError(customerror.WithError(err))
	}

	return &DockerOrchestrator{cli: cli}, nil
}
