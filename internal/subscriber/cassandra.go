package subscriber

import (
	"context"
	"fmt"
	"time"

	"github.com/gocql/gocql"

	"github.com/nguyentantai21042004/video-context/internal/notifier"
)

const createTranscriptsTable = `
	CREATE TABLE IF NOT EXISTS video_transcripts (
		video_path text PRIMARY KEY,
		video_filename text,
		video_hash text,
		transcript_text text,
		output_path text,
		run_id text,
		transcribed_at timestamp
	)`

const insertTranscript = `
	INSERT INTO video_transcripts (video_path, video_filename, video_hash, transcript_text, output_path, run_id, transcribed_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)`

// CassandraSink stores every new transcript in the video_transcripts table.
type CassandraSink struct {
	session *gocql.Session
}

// ConnectCassandra opens a session on keyspace and ensures the table exists
func ConnectCassandra(hosts []string, keyspace string) (*CassandraSink, error) {
	cluster := gocql.NewCluster(hosts...)
	cluster.Keyspace = keyspace
	cluster.Consistency = gocql.Quorum
	cluster.Timeout = 10 * time.Second
	cluster.ConnectTimeout = 10 * time.Second

	session, err := cluster.CreateSession()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Cassandra: %w", err)
	}

	if err := session.Query(createTranscriptsTable).Exec(); err != nil {
		session.Close()
		return nil, fmt.Errorf("failed to create video_transcripts table: %w", err)
	}

	return &CassandraSink{session: session}, nil
}

func (c *CassandraSink) Notify(ctx context.Context, event notifier.Event) error {
	if event.Kind != notifier.KindVideoTranscription || event.Video == nil {
		return nil
	}

	v := event.Video
	err := c.session.Query(insertTranscript,
		v.VideoPath, v.VideoFilename, v.VideoHash, v.Transcript, v.OutputPath, event.RunID, v.Timestamp,
	).WithContext(ctx).Exec()
	if err != nil {
		return fmt.Errorf("error inserting transcript for %s: %w", v.VideoFilename, err)
	}
	return nil
}

func (c *CassandraSink) Close() error {
	c.session.Close()
	return nil
}
