//go:build integration

package worker_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/twmb/franz-go/pkg/kgo"

	id "studycat/pkg/domain"
	audit "studycat/pkg/platform/audit"
	"studycat/pkg/platform/audit/store/postgres"
	"studycat/pkg/platform/audit/worker"
	"studycat/pkg/testutil/containers"
)

type RelaySuite struct {
	suite.Suite
	pg     *containers.PostgresContainer
	kafka  *containers.KafkaContainer
	store  *postgres.Store
	client *kgo.Client
}

func TestRelaySuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RelaySuite))
}

func (s *RelaySuite) SetupSuite() {
	mgr := containers.GetManager()
	s.pg = mgr.GetPostgres(s.T())
	s.kafka = mgr.GetKafka(s.T())
	s.store = postgres.New(s.pg.DB)

	client, err := kgo.NewClient(kgo.SeedBrokers(s.kafka.Brokers...))
	s.Require().NoError(err)
	s.client = client
}

func (s *RelaySuite) TearDownSuite() {
	if s.client != nil {
		s.client.Close()
	}
}

func (s *RelaySuite) SetupTest() {
	s.Require().NoError(s.pg.TruncateTables(context.Background(), "outbox", "audit_events"))
}

func (s *RelaySuite) TestOutboxRowsReachTopic() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	topic := "studycat.audit.relay-test"
	s.Require().NoError(worker.EnsureTopic(ctx, s.client, topic, 1, 1))
	s.Require().NoError(worker.EnsureTopic(ctx, s.client, topic, 1, 1), "existing topic is fine")

	studyID := id.NewStudyID()
	s.Require().NoError(s.store.Append(ctx, audit.Event{
		StudyID: studyID,
		Action:  string(audit.EventStudyCreated),
		Subject: "csg-bowen-basin",
	}))

	w := worker.NewWorker(s.store, s.client, topic)
	n, err := w.RunOnce(ctx)
	s.Require().NoError(err)
	s.Equal(1, n)

	pending, err := s.store.ListPendingOutbox(ctx, 10)
	s.Require().NoError(err)
	s.Empty(pending)

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(s.kafka.Brokers...),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	s.Require().NoError(err)
	defer consumer.Close()

	fetches := consumer.PollRecords(ctx, 1)
	s.Require().NoError(fetches.Err())
	records := fetches.Records()
	s.Require().Len(records, 1)
	s.Equal(studyID.String(), string(records[0].Key))

	var payload postgres.Payload
	s.Require().NoError(json.Unmarshal(records[0].Value, &payload))
	s.Equal("study_created", payload.Action)
	s.Equal("compliance", payload.Category)
	s.Equal("csg-bowen-basin", payload.Subject)

	events, err := s.store.ListByStudy(ctx, studyID)
	s.Require().NoError(err)
	s.Require().Len(events, 1)
	s.Equal(audit.CategoryCompliance, events[0].Category)
}
