package kube

import (
	"bufio"
	"context"
	"io"

	corev1 "k8s.io/api/core/v1"

	"kuberun/internal/apperrors"
	"kuberun/internal/work"
)

// maxLogLine bounds a single scanned log line. Generous so minified
// single-line output survives intact.
const maxLogLine = 1024 * 1024

// StreamLogs opens the captured output of a container in the pod. The stream
// covers output written so far (no follow) and is not restartable; the caller
// owns closing it.
func (c *Client) StreamLogs(ctx context.Context, ref work.PodRef, container string) (io.ReadCloser, error) {
	req := c.clientset.CoreV1().Pods(ref.Namespace).GetLogs(ref.Name, &corev1.PodLogOptions{
		Container: container,
	})
	stream, err := req.Stream(ctx)
	if err != nil {
		return nil, apperrors.FromKubernetes("pods.log", "pod", err)
	}
	return stream, nil
}

// Logs relays the captured output of a container as lines: emission order and
// interior blank lines preserved, empty non-nil slice for a silent container.
// The stream is released whether the scan finishes or fails.
func (c *Client) Logs(ctx context.Context, ref work.PodRef, container string) ([]string, error) {
	stream, err := c.StreamLogs(ctx, ref, container)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	lines, err := collectLines(stream)
	if err != nil {
		return nil, apperrors.Internal("pods.log", err)
	}

	if c.metrics != nil {
		c.metrics.RecordLogLines(ctx, len(lines))
	}

	return lines, nil
}

func collectLines(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLogLine)

	lines := []string{}
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}
