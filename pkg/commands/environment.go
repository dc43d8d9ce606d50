package commands

import (
	"context"
	"errors"

	"tableflip.dev/sphere/pkg/app"
	"tableflip.dev/sphere/pkg/blobstore"
	"tableflip.dev/sphere/pkg/config"
	"tableflip.dev/sphere/pkg/docstore"
	"tableflip.dev/sphere/pkg/identity"
	"tableflip.dev/sphere/pkg/prefs"
)

// environment wires a command's collaborators from configuration.
type environment struct {
	cfg      config.Config
	store    docstore.Store
	blobs    blobstore.Store
	prefs    *prefs.Store
	session  identity.Session
	signedIn bool
}

var errSignedOut = errors.New("not signed in, run: sphere login")

func loadEnvironment(ctx context.Context) (*environment, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	store, err := docstore.NewFromConfig(docstore.Config{
		Type:     cfg.Store,
		BasePath: cfg.DocumentsPath(),
	})
	if err != nil {
		return nil, err
	}
	blobs, err := blobstore.NewFromConfig(ctx, blobstore.Config{
		Type: cfg.Blob,
		S3: blobstore.S3Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Prefix:          cfg.S3Prefix,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKey,
			SecretAccessKey: cfg.S3SecretKey,
		},
	})
	if err != nil {
		return nil, err
	}
	pf, err := prefs.Open(cfg.PrefsPath())
	if err != nil {
		return nil, err
	}
	env := &environment{cfg: cfg, store: store, blobs: blobs, prefs: pf}
	if s, ok, err := identity.LoadSession(cfg.SessionPath()); err != nil {
		return nil, err
	} else if ok {
		env.session = s
		env.signedIn = true
	}
	return env, nil
}

func (e *environment) service() *app.Service {
	return &app.Service{Store: e.store, Blobs: e.blobs}
}

// requireSession gates commands that act as a user.
func (e *environment) requireSession() (identity.Session, error) {
	if !e.signedIn {
		return identity.Session{}, errSignedOut
	}
	return e.session, nil
}

// resolveSphere picks the sphere to act on: the flag if given, otherwise
// the user's last-used sphere. A successful pick is remembered.
func (e *environment) resolveSphere(flag string) (string, error) {
	if flag != "" {
		_ = e.prefs.SetLastSphere(e.session.UserID, flag)
		return flag, nil
	}
	if last := e.prefs.LastSphere(e.session.UserID); last != "" {
		return last, nil
	}
	return "", errors.New("no sphere selected, pass --sphere or run: sphere spheres")
}
