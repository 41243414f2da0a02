package torrentx

import (
	"context"
	"fmt"

	"github.com/anacrolix/torrent"

	"github.com/juanflix/nowplaying/internal/config"
)

// WaitInfo blocks until the torrent's metadata has been fetched or ctx ends.
func WaitInfo(ctx context.Context, t *torrent.Torrent) error {
	select {
	case <-t.GotInfo():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// OpenMagnet starts a client downloading into dataDir, adds the magnet link
// and waits for its metadata. The caller closes the client.
func OpenMagnet(ctx context.Context, dataDir, magnet string) (*torrent.Client, *torrent.Torrent, error) {
	logger := config.GetLogger()

	clientConfig := torrent.NewDefaultClientConfig()
	if dataDir != "" {
		clientConfig.DataDir = dataDir
	}
	client, err := torrent.NewClient(clientConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to start torrent client: %w", err)
	}

	t, err := client.AddMagnet(magnet)
	if err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("failed to add magnet: %w", err)
	}

	logger.Info().Str("infohash", t.InfoHash().HexString()).Msg("Waiting for torrent metadata")
	if err := WaitInfo(ctx, t); err != nil {
		client.Close()
		return nil, nil, err
	}
	logger.Info().Str("name", t.Name()).Int("pieces", t.NumPieces()).Int("files", len(t.Files())).Msg("Torrent metadata received")

	t.DownloadAll()
	return client, t, nil
}
