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

package index

import (
	"context"
	"math"
	"os"
	"strconv"
	"syscall"

	"github.com/9rum/fingertree/internal/btree"
	"github.com/cockroachdb/errors"
	"github.com/golang/glog"
	"github.com/golang/protobuf/ptypes/empty"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// maxExactFloat is the largest magnitude a float64 holds without losing
// integer precision.
const maxExactFloat = 1 << 53

// indexServer implements the server API for Index service.
type indexServer struct {
	UnimplementedIndexServer
	index *Index
	done  chan<- os.Signal
}

// NewIndexServer creates a new index server backed by a tree of the given
// minimum degree.  A termination signal is delivered on done when the index
// is finalized.
func NewIndexServer(done chan<- os.Signal, degree int) IndexServer {
	return &indexServer{
		index: New(degree),
		done:  done,
	}
}

// Insert inserts the given key.
func (s *indexServer) Insert(ctx context.Context, in *wrapperspb.Int64Value) (*wrapperspb.BoolValue, error) {
	glog.V(1).Infof("Insert called with key: %d", in.GetValue())
	return wrapperspb.Bool(s.index.Insert(in.GetValue())), nil
}

// Remove removes the given key.
func (s *indexServer) Remove(ctx context.Context, in *wrapperspb.Int64Value) (*empty.Empty, error) {
	glog.V(1).Infof("Remove called with key: %d", in.GetValue())
	if err := s.index.Remove(in.GetValue()); err != nil {
		return nil, toStatus(err)
	}
	return new(empty.Empty), nil
}

// Search returns a finger token for the leaf holding the given key.
func (s *indexServer) Search(ctx context.Context, in *wrapperspb.Int64Value) (*wrapperspb.UInt64Value, error) {
	glog.V(1).Infof("Search called with key: %d", in.GetValue())
	token, ok := s.index.Search(in.GetValue())
	if !ok {
		return nil, status.Errorf(codes.NotFound, "key %d not found", in.GetValue())
	}
	return wrapperspb.UInt64(token), nil
}

// FingerSearch looks up "dst" starting from either "finger" or "src"; a
// request carrying both is rejected.
func (s *indexServer) FingerSearch(ctx context.Context, in *structpb.Struct) (*wrapperspb.UInt64Value, error) {
	fields := in.GetFields()
	dst, err := keyField(fields, "dst")
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	_, hasFinger := fields["finger"]
	if _, hasSrc := fields["src"]; hasFinger && hasSrc {
		return nil, status.Error(codes.InvalidArgument, "fields \"finger\" and \"src\" are mutually exclusive")
	}

	var token uint64
	if hasFinger {
		var finger uint64
		if finger, err = tokenField(fields, "finger"); err != nil {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
		glog.V(1).Infof("FingerSearch called with finger: %d dst: %d", finger, dst)
		token, err = s.index.FingerSearch(finger, dst)
	} else {
		var src int64
		if src, err = keyField(fields, "src"); err != nil {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
		glog.V(1).Infof("FingerSearch called with src: %d dst: %d", src, dst)
		token, err = s.index.FingerSearchKey(src, dst)
	}
	if err != nil {
		return nil, toStatus(err)
	}
	return wrapperspb.UInt64(token), nil
}

// Leaf streams the keys of the leaf the given finger token refers to.
func (s *indexServer) Leaf(in *wrapperspb.UInt64Value, stream Index_LeafServer) error {
	glog.V(1).Infof("Leaf called with finger: %d", in.GetValue())
	keys, err := s.index.Keys(in.GetValue())
	if err != nil {
		return toStatus(err)
	}
	return sendKeys(stream, keys)
}

// Traverse streams a snapshot of every key in ascending order.
func (s *indexServer) Traverse(in *empty.Empty, stream Index_TraverseServer) error {
	keys := s.index.Traverse()
	glog.V(1).Infof("Traverse called with %d keys", len(keys))
	return sendKeys(stream, keys)
}

// Finalize releases the index and terminates the server.
func (s *indexServer) Finalize(ctx context.Context, in *empty.Empty) (*empty.Empty, error) {
	defer func() {
		select {
		case s.done <- syscall.SIGTERM:
		default:
		}
	}()

	glog.Infof("Finalize called with %d keys", s.index.Len())
	defer glog.Flush()

	s.index.Clear()

	return new(empty.Empty), nil
}

func sendKeys(stream Index_KeysServer, keys []int64) error {
	for _, key := range keys {
		if err := stream.Context().Err(); err != nil {
			return status.FromContextError(err).Err()
		}
		if err := stream.Send(wrapperspb.Int64(key)); err != nil {
			return err
		}
	}
	return nil
}

// toStatus translates tree errors into gRPC status errors.
func toStatus(err error) error {
	switch {
	case errors.Is(err, btree.ErrKeyNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, btree.ErrStaleHandle):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, btree.ErrTypeMismatch):
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

// keyField reads an int64 from either a number or a decimal string field.
func keyField(fields map[string]*structpb.Value, name string) (int64, error) {
	v, ok := fields[name]
	if !ok {
		return 0, errors.Newf("missing field %q", name)
	}
	switch kind := v.GetKind().(type) {
	case *structpb.Value_NumberValue:
		f := kind.NumberValue
		if f != math.Trunc(f) || maxExactFloat < math.Abs(f) {
			return 0, errors.Newf("field %q: %v is not an exact integer", name, f)
		}
		return int64(f), nil
	case *structpb.Value_StringValue:
		key, err := strconv.ParseInt(kind.StringValue, 10, 64)
		if err != nil {
			return 0, errors.Wrapf(err, "field %q", name)
		}
		return key, nil
	default:
		return 0, errors.Newf("field %q: unsupported value %v", name, v)
	}
}

// tokenField reads a finger token.  Tokens overflow the exact range of a
// float64, so they are normally sent as decimal strings.
func tokenField(fields map[string]*structpb.Value, name string) (uint64, error) {
	v := fields[name]
	switch kind := v.GetKind().(type) {
	case *structpb.Value_NumberValue:
		f := kind.NumberValue
		if f != math.Trunc(f) || f < 0 || maxExactFloat < f {
			return 0, errors.Newf("field %q: %v is not an exact token", name, f)
		}
		return uint64(f), nil
	case *structpb.Value_StringValue:
		token, err := strconv.ParseUint(kind.StringValue, 10, 64)
		if err != nil {
			return 0, errors.Wrapf(err, "field %q", name)
		}
		return token, nil
	default:
		return 0, errors.Newf("field %q: unsupported value %v", name, v)
	}
}
