package producer

import (
	"context"
	"errors"
	"fmt"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
)

// TopicSpec describes a topic to create if missing.
type TopicSpec struct {
	Name              string
	Partitions        int32
	ReplicationFactor int16
	RetentionMs       string // empty keeps the broker default
}

// EnsureTopics creates topics that do not exist yet. Existing topics are left
// untouched.
func (p *Producer) EnsureTopics(ctx context.Context, specs ...TopicSpec) error {
	adm := kadm.NewClient(p.client)
	for _, spec := range specs {
		partitions := spec.Partitions
		if partitions <= 0 {
			partitions = 1
		}
		replication := spec.ReplicationFactor
		if replication <= 0 {
			replication = 1
		}
		var configs map[string]*string
		if spec.RetentionMs != "" {
			retention := spec.RetentionMs
			configs = map[string]*string{"retention.ms": &retention}
		}

		resp, err := adm.CreateTopic(ctx, partitions, replication, configs, spec.Name)
		if err != nil {
			return fmt.Errorf("create topic %s: %w", spec.Name, err)
		}
		if resp.Err != nil && !errors.Is(resp.Err, kerr.TopicAlreadyExists) {
			return fmt.Errorf("create topic %s: %w", spec.Name, resp.Err)
		}
	}
	return nil
}
