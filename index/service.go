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

// The wire definition of the service lives in proto/index.proto.  It uses
// only well-known message types, so the stubs below are kept by hand in the
// layout protoc-gen-go-grpc would produce.

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// This is a compile-time assertion to ensure that this file is compatible
// with the grpc package it is being compiled against.
const _ = grpc.SupportPackageIsVersion7

const (
	Index_Insert_FullMethodName       = "/fingertree.Index/Insert"
	Index_Remove_FullMethodName       = "/fingertree.Index/Remove"
	Index_Search_FullMethodName       = "/fingertree.Index/Search"
	Index_FingerSearch_FullMethodName = "/fingertree.Index/FingerSearch"
	Index_Leaf_FullMethodName         = "/fingertree.Index/Leaf"
	Index_Traverse_FullMethodName     = "/fingertree.Index/Traverse"
	Index_Finalize_FullMethodName     = "/fingertree.Index/Finalize"
)

// IndexClient is the client API for Index service.
type IndexClient interface {
	// Insert adds a key and reports whether it was not present.
	Insert(ctx context.Context, in *wrapperspb.Int64Value, opts ...grpc.CallOption) (*wrapperspb.BoolValue, error)
	// Remove deletes a key; NOT_FOUND if it is absent.
	Remove(ctx context.Context, in *wrapperspb.Int64Value, opts ...grpc.CallOption) (*emptypb.Empty, error)
	// Search returns a finger token for the leaf holding a key.
	Search(ctx context.Context, in *wrapperspb.Int64Value, opts ...grpc.CallOption) (*wrapperspb.UInt64Value, error)
	// FingerSearch looks up "dst" starting from "finger" (a decimal token) or
	// from the leaf holding "src".
	FingerSearch(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*wrapperspb.UInt64Value, error)
	// Leaf streams the keys of the leaf a finger token refers to.
	Leaf(ctx context.Context, in *wrapperspb.UInt64Value, opts ...grpc.CallOption) (Index_LeafClient, error)
	// Traverse streams every key in ascending order.
	Traverse(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (Index_TraverseClient, error)
	// Finalize shuts the server down.
	Finalize(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*emptypb.Empty, error)
}

type indexClient struct {
	cc grpc.ClientConnInterface
}

func NewIndexClient(cc grpc.ClientConnInterface) IndexClient {
	return &indexClient{cc}
}

func (c *indexClient) Insert(ctx context.Context, in *wrapperspb.Int64Value, opts ...grpc.CallOption) (*wrapperspb.BoolValue, error) {
	out := new(wrapperspb.BoolValue)
	err := c.cc.Invoke(ctx, Index_Insert_FullMethodName, in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *indexClient) Remove(ctx context.Context, in *wrapperspb.Int64Value, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	out := new(emptypb.Empty)
	err := c.cc.Invoke(ctx, Index_Remove_FullMethodName, in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *indexClient) Search(ctx context.Context, in *wrapperspb.Int64Value, opts ...grpc.CallOption) (*wrapperspb.UInt64Value, error) {
	out := new(wrapperspb.UInt64Value)
	err := c.cc.Invoke(ctx, Index_Search_FullMethodName, in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *indexClient) FingerSearch(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*wrapperspb.UInt64Value, error) {
	out := new(wrapperspb.UInt64Value)
	err := c.cc.Invoke(ctx, Index_FingerSearch_FullMethodName, in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *indexClient) Leaf(ctx context.Context, in *wrapperspb.UInt64Value, opts ...grpc.CallOption) (Index_LeafClient, error) {
	stream, err := c.cc.NewStream(ctx, &Index_ServiceDesc.Streams[0], Index_Leaf_FullMethodName, opts...)
	if err != nil {
		return nil, err
	}
	x := &indexKeysClient{stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

func (c *indexClient) Traverse(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (Index_TraverseClient, error) {
	stream, err := c.cc.NewStream(ctx, &Index_ServiceDesc.Streams[1], Index_Traverse_FullMethodName, opts...)
	if err != nil {
		return nil, err
	}
	x := &indexKeysClient{stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

func (c *indexClient) Finalize(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	out := new(emptypb.Empty)
	err := c.cc.Invoke(ctx, Index_Finalize_FullMethodName, in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Index_KeysClient receives a stream of keys.
type Index_KeysClient interface {
	Recv() (*wrapperspb.Int64Value, error)
	grpc.ClientStream
}

type (
	Index_LeafClient     = Index_KeysClient
	Index_TraverseClient = Index_KeysClient
)

type indexKeysClient struct {
	grpc.ClientStream
}

func (x *indexKeysClient) Recv() (*wrapperspb.Int64Value, error) {
	m := new(wrapperspb.Int64Value)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

// IndexServer is the server API for Index service.
// All implementations must embed UnimplementedIndexServer
// for forward compatibility
type IndexServer interface {
	Insert(context.Context, *wrapperspb.Int64Value) (*wrapperspb.BoolValue, error)
	Remove(context.Context, *wrapperspb.Int64Value) (*emptypb.Empty, error)
	Search(context.Context, *wrapperspb.Int64Value) (*wrapperspb.UInt64Value, error)
	FingerSearch(context.Context, *structpb.Struct) (*wrapperspb.UInt64Value, error)
	Leaf(*wrapperspb.UInt64Value, Index_LeafServer) error
	Traverse(*emptypb.Empty, Index_TraverseServer) error
	Finalize(context.Context, *emptypb.Empty) (*emptypb.Empty, error)
	mustEmbedUnimplementedIndexServer()
}

// UnimplementedIndexServer must be embedded to have forward compatible implementations.
type UnimplementedIndexServer struct {
}

func (UnimplementedIndexServer) Insert(context.Context, *wrapperspb.Int64Value) (*wrapperspb.BoolValue, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Insert not implemented")
}
func (UnimplementedIndexServer) Remove(context.Context, *wrapperspb.Int64Value) (*emptypb.Empty, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Remove not implemented")
}
func (UnimplementedIndexServer) Search(context.Context, *wrapperspb.Int64Value) (*wrapperspb.UInt64Value, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Search not implemented")
}
func (UnimplementedIndexServer) FingerSearch(context.Context, *structpb.Struct) (*wrapperspb.UInt64Value, error) {
	return nil, status.Errorf(codes.Unimplemented, "method FingerSearch not implemented")
}
func (UnimplementedIndexServer) Leaf(*wrapperspb.UInt64Value, Index_LeafServer) error {
	return status.Errorf(codes.Unimplemented, "method Leaf not implemented")
}
func (UnimplementedIndexServer) Traverse(*emptypb.Empty, Index_TraverseServer) error {
	return status.Errorf(codes.Unimplemented, "method Traverse not implemented")
}
func (UnimplementedIndexServer) Finalize(context.Context, *emptypb.Empty) (*emptypb.Empty, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Finalize not implemented")
}
func (UnimplementedIndexServer) mustEmbedUnimplementedIndexServer() {}

func RegisterIndexServer(s grpc.ServiceRegistrar, srv IndexServer) {
	s.RegisterService(&Index_ServiceDesc, srv)
}

func _Index_Insert_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.Int64Value)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(IndexServer).Insert(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: Index_Insert_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(IndexServer).Insert(ctx, req.(*wrapperspb.Int64Value))
	}
	return interceptor(ctx, in, info, handler)
}

func _Index_Remove_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.Int64Value)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(IndexServer).Remove(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: Index_Remove_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(IndexServer).Remove(ctx, req.(*wrapperspb.Int64Value))
	}
	return interceptor(ctx, in, info, handler)
}

func _Index_Search_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.Int64Value)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(IndexServer).Search(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: Index_Search_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(IndexServer).Search(ctx, req.(*wrapperspb.Int64Value))
	}
	return interceptor(ctx, in, info, handler)
}

func _Index_FingerSearch_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(IndexServer).FingerSearch(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: Index_FingerSearch_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(IndexServer).FingerSearch(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func _Index_Leaf_Handler(srv interface{}, stream grpc.ServerStream) error {
	m := new(wrapperspb.UInt64Value)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(IndexServer).Leaf(m, &indexKeysServer{stream})
}

func _Index_Traverse_Handler(srv interface{}, stream grpc.ServerStream) error {
	m := new(emptypb.Empty)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(IndexServer).Traverse(m, &indexKeysServer{stream})
}

func _Index_Finalize_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(IndexServer).Finalize(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: Index_Finalize_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(IndexServer).Finalize(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

// Index_KeysServer sends a stream of keys.
type Index_KeysServer interface {
	Send(*wrapperspb.Int64Value) error
	grpc.ServerStream
}

type (
	Index_LeafServer     = Index_KeysServer
	Index_TraverseServer = Index_KeysServer
)

type indexKeysServer struct {
	grpc.ServerStream
}

func (x *indexKeysServer) Send(m *wrapperspb.Int64Value) error {
	return x.ServerStream.SendMsg(m)
}

// Index_ServiceDesc is the grpc.ServiceDesc for Index service.
// It's only intended for direct use with grpc.RegisterService,
// and not to be introspected or modified (even as a copy)
var Index_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "fingertree.Index",
	HandlerType: (*IndexServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Insert",
			Handler:    _Index_Insert_Handler,
		},
		{
			MethodName: "Remove",
			Handler:    _Index_Remove_Handler,
		},
		{
			MethodName: "Search",
			Handler:    _Index_Search_Handler,
		},
		{
			MethodName: "FingerSearch",
			Handler:    _Index_FingerSearch_Handler,
		},
		{
			MethodName: "Finalize",
			Handler:    _Index_Finalize_Handler,
		},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "Leaf",
			Handler:       _Index_Leaf_Handler,
			ServerStreams: true,
		},
		{
			StreamName:    "Traverse",
			Handler:       _Index_Traverse_Handler,
			ServerStreams: true,
		},
	},
	Metadata: "index.proto",
}
