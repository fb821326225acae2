// Package coordination wires a beapserver fleet together through etcd: a
// peer registry and a single-writer leader election so that at most one
// instance accepts mutating requests at a time.
package coordination

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.etcd.io/etcd/clientv3"
	"go.etcd.io/etcd/clientv3/concurrency"
)

// ErrNotLeader is the sentinel a mutating request fails with when the
// instance handling it does not currently hold the single-writer lease.
var ErrNotLeader = errors.New("coordination: this instance is not the leader")

const defaultTimeout = 10 * time.Second

// leaseTTL bounds how long a dead leader can hold the election key before
// etcd reclaims it.
const leaseTTL = 10

// State wraps the etcd connection used for peer discovery and leader
// election within one cluster namespace.
type State struct {
	logger *log.Logger
	cl     *clientv3.Client
	prefix string

	nodeID string

	session  *concurrency.Session
	election *concurrency.Election

	// mu protects isLeader, read concurrently by every request-handling
	// goroutine in queueserver and written by CampaignLeader, Resign, and
	// the background watchLeadershipLoss goroutine.
	mu       sync.Mutex
	isLeader bool
}

// NewState connects to the etcd cluster at addr and scopes all keys under
// clusterName. nodeID identifies this instance in the peer registry and
// during leader election; a zero value gets a freshly generated UUID.
func NewState(logger *log.Logger, addr []string, clusterName, nodeID string) (*State, error) {
	etcdClient, err := clientv3.New(clientv3.Config{
		Endpoints:   addr,
		DialTimeout: defaultTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("creating etcd client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	if _, err := etcdClient.Put(ctx, "test", "test"); err != nil {
		return nil, fmt.Errorf("could not set the test key: %w", err)
	}

	if nodeID == "" {
		nodeID = uuid.New().String()
	}

	return &State{
		logger: logger,
		cl:     etcdClient,
		prefix: "beapdb/" + clusterName + "/",
		nodeID: nodeID,
	}, nil
}

// NodeID returns the identifier this instance registers itself under.
func (s *State) NodeID() string { return s.nodeID }

func (s *State) put(ctx context.Context, key, value string) error {
	_, err := s.cl.Put(ctx, s.prefix+key, value)
	return err
}

type kv struct {
	Key   string
	Value string
}

func (s *State) get(ctx context.Context, key string, opts ...clientv3.OpOption) ([]kv, error) {
	resp, err := s.cl.Get(ctx, s.prefix+key, opts...)
	if err != nil {
		return nil, err
	}

	res := make([]kv, 0, len(resp.Kvs))
	for _, item := range resp.Kvs {
		res = append(res, kv{Key: string(item.Key), Value: string(item.Value)})
	}
	return res, nil
}

// Peer is one beapserver instance known to the cluster.
type Peer struct {
	NodeID     string
	ListenAddr string
}

// RegisterPeer publishes this instance's listen address under its node ID
// so the rest of the cluster can discover it.
func (s *State) RegisterPeer(ctx context.Context, listenAddr string) error {
	return s.put(ctx, "peers/"+s.nodeID, listenAddr)
}

// ListPeers returns every peer currently registered in the cluster.
func (s *State) ListPeers(ctx context.Context) ([]Peer, error) {
	resp, err := s.get(ctx, "peers/", clientv3.WithPrefix())
	if err != nil {
		return nil, err
	}

	res := make([]Peer, 0, len(resp))
	for _, item := range resp {
		res = append(res, Peer{
			NodeID:     strings.TrimPrefix(item.Key, s.prefix+"peers/"),
			ListenAddr: item.Value,
		})
	}
	return res, nil
}

// CampaignLeader blocks until this instance wins the single-writer lease,
// or ctx is cancelled. It is safe to call only once per State.
func (s *State) CampaignLeader(ctx context.Context) error {
	session, err := concurrency.NewSession(s.cl, concurrency.WithTTL(leaseTTL))
	if err != nil {
		return fmt.Errorf("creating etcd session: %w", err)
	}

	election := concurrency.NewElection(session, s.prefix+"leader/")
	if err := election.Campaign(ctx, s.nodeID); err != nil {
		session.Close()
		return fmt.Errorf("campaigning for leadership: %w", err)
	}

	s.session = session
	s.election = election

	s.mu.Lock()
	s.isLeader = true
	s.mu.Unlock()

	go s.watchLeadershipLoss(session)

	s.logger.Printf("%s: elected leader", s.nodeID)
	return nil
}

func (s *State) watchLeadershipLoss(session *concurrency.Session) {
	<-session.Done()
	s.mu.Lock()
	s.isLeader = false
	s.mu.Unlock()
	s.logger.Printf("%s: etcd session expired, no longer leader", s.nodeID)
}

// IsLeader reports whether this instance currently holds the
// single-writer lease. It implements queueserver.LeaderChecker.
func (s *State) IsLeader() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isLeader
}

// Resign releases the leadership lease, if held.
func (s *State) Resign(ctx context.Context) error {
	if s.election == nil {
		return nil
	}
	if err := s.election.Resign(ctx); err != nil {
		return fmt.Errorf("resigning leadership: %w", err)
	}
	s.mu.Lock()
	s.isLeader = false
	s.mu.Unlock()
	return s.session.Close()
}

// WatchLeader returns the node ID of the current leader, blocking until
// one has been elected, then reports every subsequent change on the
// returned channel until ctx is cancelled.
func (s *State) WatchLeader(ctx context.Context) (current string, changes chan string, err error) {
	session, err := concurrency.NewSession(s.cl, concurrency.WithTTL(leaseTTL))
	if err != nil {
		return "", nil, fmt.Errorf("creating etcd session: %w", err)
	}
	election := concurrency.NewElection(session, s.prefix+"leader/")

	resp := election.Observe(ctx)
	first, ok := <-resp
	if !ok {
		session.Close()
		return "", nil, fmt.Errorf("leader election observation closed before a leader appeared")
	}
	current = string(first.Kvs[0].Value)

	out := make(chan string)
	go func() {
		defer session.Close()
		defer close(out)
		for r := range resp {
			if len(r.Kvs) == 0 {
				continue
			}
			out <- string(r.Kvs[0].Value)
		}
	}()

	return current, out, nil
}
