// Command beapserver runs a standalone beapdb queueserver instance,
// optionally joining an etcd-coordinated cluster for leader election.
package main

import (
	"context"
	"flag"
	"log"
	"strings"

	"github.com/beapdb/beap/coordination"
	"github.com/beapdb/beap/queueserver"
)

var (
	listenAddr   = flag.String("listen", ":8080", "Network address to listen on")
	instanceName = flag.String("instance", "", "Name of this instance, used in logs and peer registration")
	etcdAddr     = flag.String("etcd", "", "Comma-separated list of etcd endpoints; leave empty to run without coordination")
	clusterName  = flag.String("cluster", "default", "Name of the beapdb cluster to join in etcd")
	nodeID       = flag.String("node-id", "", "Stable identifier for this instance; a random UUID is generated if empty")
)

func main() {
	flag.Parse()

	if *instanceName == "" {
		log.Fatalf("The flag `--instance` must be provided")
	}

	var leader queueserver.LeaderChecker

	if *etcdAddr != "" {
		state, err := coordination.NewState(log.Default(), strings.Split(*etcdAddr, ","), *clusterName, *nodeID)
		if err != nil {
			log.Fatalf("Connecting to etcd: %v", err)
		}

		ctx := context.Background()
		if err := state.RegisterPeer(ctx, *listenAddr); err != nil {
			log.Fatalf("Registering peer: %v", err)
		}
		if err := state.CampaignLeader(ctx); err != nil {
			log.Fatalf("Campaigning for leadership: %v", err)
		}

		leader = state
	}

	s := queueserver.NewServer(log.Default(), *instanceName, *listenAddr, leader)

	log.Printf("Listening connections")
	if err := s.Serve(); err != nil {
		log.Fatalf("Serving: %v", err)
	}
}
