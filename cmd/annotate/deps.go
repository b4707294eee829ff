package main

import (
	"errors"
	"path/filepath"
	"time"

	"video-annotate/pkg/annotate"
	"video-annotate/pkg/kv"
	"video-annotate/pkg/push"
	"video-annotate/pkg/remote"
)

var errNoURL = errors.New("--url is required")

func openStore() (kv.Store, error) {
	location := storePath
	switch storeBackend {
	case kv.BackendBolt:
		location = filepath.Join(storePath, "annotations.db")
	case kv.BackendRedis:
		location = cfg.App.RedisURL
	}
	return kv.Open(storeBackend, location)
}

func newRemote() *remote.Client {
	return remote.NewClient(serverURL, remote.WithSharedBy(userName))
}

func newDialer() annotate.PushDialer {
	return push.NewDialer(pushURL, 10*time.Second)
}

func requireURL() error {
	if resourceURL == "" {
		return errNoURL
	}
	return nil
}
