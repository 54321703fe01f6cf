//
//  Copyright © Stackport Inc. All rights reserved.
//

package config

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Kubernetes Downward API metadata support. When running inside a pod with a
// podinfo volume mounted (see audit.k8s.podinfo), pod labels and annotations
// are folded into decision-record metadata.
//
// The Downward API serializes labels and annotations one per line as
// key="value". Files are read once and cached for the process lifetime.

var (
	k8sOnce        sync.Once
	k8sLabels      map[string]string
	k8sAnnotations map[string]string
)

func podinfoPath() string {
	return VConfig.GetString(AuditK8sPodinfo)
}

func parseDownwardAPIFile(path string) (map[string]string, error) {
	file, err := os.Open(path) // #nosec G304 -- path is trusted config + fixed filename
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer func() { _ = file.Close() }()

	result := make(map[string]string)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		// values are quoted, e.g. app="ownerengine"
		value = strings.Trim(value, "\"")
		result[key] = value
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func loadK8sMetadata() {
	dir := podinfoPath()
	if dir == "" {
		return
	}

	labels, err := parseDownwardAPIFile(filepath.Join(dir, "labels"))
	if err != nil {
		logger.SysWarnf("failed reading podinfo labels: %+v", err)
	} else {
		k8sLabels = labels
	}

	annotations, err := parseDownwardAPIFile(filepath.Join(dir, "annotations"))
	if err != nil {
		logger.SysWarnf("failed reading podinfo annotations: %+v", err)
	} else {
		k8sAnnotations = annotations
	}
}

// getK8sLabels returns pod labels from the Downward API volume, or nil when
// not running in Kubernetes.
func getK8sLabels() map[string]string {
	k8sOnce.Do(loadK8sMetadata)
	return k8sLabels
}

// getK8sAnnotations returns pod annotations from the Downward API volume, or
// nil when not running in Kubernetes.
func getK8sAnnotations() map[string]string {
	k8sOnce.Do(loadK8sMetadata)
	return k8sAnnotations
}

func resetK8sCache() {
	k8sOnce = sync.Once{}
	k8sLabels = nil
	k8sAnnotations = nil
}
