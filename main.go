// Copyright 2022 Sogang University
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package main implements the index server. The server holds a single
// finger-search B-tree and terminates when the index is finalized or the
// process is interrupted.
package main

import (
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/9rum/fingertree/index"
	"github.com/golang/glog"
	grpc_recovery "github.com/grpc-ecosystem/go-grpc-middleware/recovery"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func main() {
	port := flag.Int("p", 50051, "The server port")
	degree := flag.Int("degree", 32, "The minimum degree of the tree")
	flag.Parse()

	if err := serve(*port, *degree); err != nil {
		glog.Fatalf("failed to serve: %v", err)
	}
}

func serve(port, degree int) error {
	if degree <= 1 {
		return fmt.Errorf("bad degree: %d", degree)
	}

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return err
	}

	server := newServer(degree)
	glog.Infof("server listening at %v with degree %d", lis.Addr(), degree)

	return server.Serve(lis)
}

func newServer(degree int) *grpc.Server {
	server := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			grpc_recovery.UnaryServerInterceptor(grpc_recovery.WithRecoveryHandler(recoveryHandler)),
		),
		grpc.ChainStreamInterceptor(
			grpc_recovery.StreamServerInterceptor(grpc_recovery.WithRecoveryHandler(recoveryHandler)),
		),
	)
	done := make(chan os.Signal, 1)
	signal.Notify(done, syscall.SIGINT, syscall.SIGTERM)

	go func(done <-chan os.Signal, server *grpc.Server) {
		sig := <-done
		glog.Infof("received %v, stopping server", sig)
		server.GracefulStop()
	}(done, server)

	index.RegisterIndexServer(server, index.NewIndexServer(done, degree))

	return server
}

// recoveryHandler turns a panic inside a handler into an internal error.
func recoveryHandler(p interface{}) error {
	glog.Errorf("recovered from panic: %v", p)
	return status.Errorf(codes.Internal, "%v", p)
}
