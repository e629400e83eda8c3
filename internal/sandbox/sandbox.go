package sandbox

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/mount"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/client"
	"github.com/docker/go-connections/nat"
)

// Browser is a containerized Chrome instance exposing a CDP endpoint on
// the host.
type Browser struct {
	config      Config
	client      *client.Client
	containerID string
	hostPort    string
	running     bool
	mu          sync.RWMutex
}

// New creates a containerized browser with the given configuration.
// The container is not started until Start() is called.
func New(cfg Config) (*Browser, error) {
	cfg.Validate()

	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create Docker client: %w", err)
	}

	return &Browser{
		config: cfg,
		client: cli,
	}, nil
}

// NewWithClient creates a containerized browser with an existing Docker
// client. Useful for testing or sharing a client across runs.
func NewWithClient(cfg Config, cli *client.Client) (*Browser, error) {
	if cli == nil {
		return nil, fmt.Errorf("Docker client cannot be nil")
	}
	cfg.Validate()
	return &Browser{config: cfg, client: cli}, nil
}

// Available reports whether a Docker daemon answers. Callers fall back to
// a locally launched Chrome when it does not.
func Available(ctx context.Context) bool {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return false
	}
	defer cli.Close()
	_, err = cli.Ping(ctx)
	return err == nil
}

// Start pulls the image if needed, creates the container, starts it, and
// waits for the CDP endpoint to answer.
func (b *Browser) Start(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.running {
		return fmt.Errorf("browser container is already running")
	}

	ctx, cancel := context.WithTimeout(ctx, b.config.StartTimeout)
	defer cancel()

	if err := b.ensureImage(ctx); err != nil {
		return fmt.Errorf("failed to ensure image: %w", err)
	}

	containerCfg, hostCfg, networkCfg := b.buildContainerConfig()

	resp, err := b.client.ContainerCreate(ctx, containerCfg, hostCfg, networkCfg, nil, "")
	if err != nil {
		return fmt.Errorf("failed to create container: %w", err)
	}
	b.containerID = resp.ID

	if err := b.client.ContainerStart(ctx, b.containerID, container.StartOptions{}); err != nil {
		_ = b.client.ContainerRemove(ctx, b.containerID, container.RemoveOptions{Force: true})
		b.containerID = ""
		return fmt.Errorf("failed to start container: %w", err)
	}

	hostPort, err := b.resolveHostPort(ctx)
	if err != nil {
		b.stopLocked(context.Background())
		return err
	}
	b.hostPort = hostPort

	if err := b.waitForCDP(ctx); err != nil {
		b.stopLocked(context.Background())
		return err
	}

	b.running = true
	return nil
}

// ensureImage pulls the image if it doesn't exist locally.
func (b *Browser) ensureImage(ctx context.Context) error {
	_, _, err := b.client.ImageInspectWithRaw(ctx, b.config.Image)
	if err == nil {
		return nil // Image exists
	}

	reader, err := b.client.ImagePull(ctx, b.config.Image, image.PullOptions{})
	if err != nil {
		return fmt.Errorf("failed to pull image %s: %w", b.config.Image, err)
	}
	defer reader.Close()

	// Consume the reader to complete the pull
	if _, err := io.Copy(io.Discard, reader); err != nil {
		return fmt.Errorf("failed to pull image %s: %w", b.config.Image, err)
	}
	return nil
}

// buildContainerConfig creates the container, host, and network configurations.
func (b *Browser) buildContainerConfig() (*container.Config, *container.HostConfig, *network.NetworkingConfig) {
	cdpPort := nat.Port(fmt.Sprintf("%d/tcp", DefaultCDPPort))

	containerCfg := &container.Config{
		Image:        b.config.Image,
		ExposedPorts: nat.PortSet{cdpPort: struct{}{}},
		Cmd: []string{
			"--remote-debugging-address=0.0.0.0",
			fmt.Sprintf("--remote-debugging-port=%d", DefaultCDPPort),
			"--no-first-run",
			"--disable-gpu",
			fmt.Sprintf("--user-data-dir=%s", containerProfileDir),
		},
	}

	hostCfg := &container.HostConfig{
		PortBindings: nat.PortMap{
			// Host port 0: let the daemon pick a free one.
			cdpPort: []nat.PortBinding{{HostIP: "127.0.0.1", HostPort: "0"}},
		},
		Resources: container.Resources{
			Memory:    b.config.MemoryMB * 1024 * 1024,
			NanoCPUs:  int64(b.config.CPUPercent * 1e9),
			PidsLimit: &b.config.MaxProcesses,
		},
	}

	if b.config.ProfileDir != "" {
		hostCfg.Mounts = []mount.Mount{{
			Type:   mount.TypeBind,
			Source: b.config.ProfileDir,
			Target: containerProfileDir,
		}}
	}

	return containerCfg, hostCfg, &network.NetworkingConfig{}
}

// resolveHostPort reads back which host port the daemon bound the CDP
// port to.
func (b *Browser) resolveHostPort(ctx context.Context) (string, error) {
	inspect, err := b.client.ContainerInspect(ctx, b.containerID)
	if err != nil {
		return "", fmt.Errorf("failed to inspect container: %w", err)
	}

	cdpPort := nat.Port(fmt.Sprintf("%d/tcp", DefaultCDPPort))
	bindings := inspect.NetworkSettings.Ports[cdpPort]
	if len(bindings) == 0 {
		return "", fmt.Errorf("container has no binding for %s", cdpPort)
	}
	return bindings[0].HostPort, nil
}

// waitForCDP polls the endpoint until Chrome inside the container answers.
func (b *Browser) waitForCDP(ctx context.Context) error {
	url := b.cdpURLLocked() + "/json/version"
	httpClient := &http.Client{Timeout: 2 * time.Second}

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("containerized Chrome CDP did not become ready: %w", ctx.Err())
		default:
		}

		resp, err := httpClient.Get(url)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		time.Sleep(200 * time.Millisecond)
	}
}

// CDPURL returns the host-side DevTools endpoint.
func (b *Browser) CDPURL() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.cdpURLLocked()
}

func (b *Browser) cdpURLLocked() string {
	return fmt.Sprintf("http://127.0.0.1:%s", b.hostPort)
}

// IsRunning reports whether the container is up.
func (b *Browser) IsRunning() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.running
}

// Stop removes the container. Safe to call when not running.
func (b *Browser) Stop(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stopLocked(ctx)
}

func (b *Browser) stopLocked(ctx context.Context) error {
	if b.containerID == "" {
		return nil
	}
	err := b.client.ContainerRemove(ctx, b.containerID, container.RemoveOptions{Force: true})
	b.containerID = ""
	b.hostPort = ""
	b.running = false
	if err != nil {
		return fmt.Errorf("failed to remove container: %w", err)
	}
	return nil
}
