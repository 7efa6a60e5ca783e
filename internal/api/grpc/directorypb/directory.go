// Package directorypb defines the messages and service descriptor of the
// keydir.Directory gRPC service. Messages travel as JSON (see package codec).
package directorypb

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/keydir/internal/api/grpc/codec"
)

const ServiceName = "keydir.Directory"

const (
	Directory_CreateUser_FullMethodName = "/keydir.Directory/CreateUser"
	Directory_GetUser_FullMethodName    = "/keydir.Directory/GetUser"
	Directory_DeleteUser_FullMethodName = "/keydir.Directory/DeleteUser"
	Directory_UpdateHash_FullMethodName = "/keydir.Directory/UpdateHash"
)

type User struct {
	UUID      string `json:"uuid"`
	PublicKey string `json:"pubKey"`
	Hash      string `json:"hash"`
}

type CreateUserRequest struct {
	PublicKey string `json:"pubKey"`
	Hash      string `json:"hash"`
}

type GetUserRequest struct {
	UUID string `json:"uuid"`
}

type DeleteUserRequest struct {
	Timestamp string `json:"timestamp"`
	UUID      string `json:"uuid"`
	Hash      string `json:"hash"`
	Signature string `json:"signature"`
}

type DeleteUserResponse struct {
	Code int `json:"code"`
}

// UpdateHashRequest carries the new hash; it is the signed payload.
type UpdateHashRequest struct {
	Timestamp string `json:"timestamp"`
	UUID      string `json:"uuid"`
	Hash      string `json:"hash"`
	Signature string `json:"signature"`
}

// DirectoryServer is the server API for the Directory service.
type DirectoryServer interface {
	CreateUser(context.Context, *CreateUserRequest) (*User, error)
	GetUser(context.Context, *GetUserRequest) (*User, error)
	DeleteUser(context.Context, *DeleteUserRequest) (*DeleteUserResponse, error)
	UpdateHash(context.Context, *UpdateHashRequest) (*User, error)
}

// UnimplementedDirectoryServer can be embedded for forward compatibility.
type UnimplementedDirectoryServer struct{}

func (UnimplementedDirectoryServer) CreateUser(context.Context, *CreateUserRequest) (*User, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateUser not implemented")
}
func (UnimplementedDirectoryServer) GetUser(context.Context, *GetUserRequest) (*User, error) {
	return nil, status.Error(codes.Unimplemented, "method GetUser not implemented")
}
func (UnimplementedDirectoryServer) DeleteUser(context.Context, *DeleteUserRequest) (*DeleteUserResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method DeleteUser not implemented")
}
func (UnimplementedDirectoryServer) UpdateHash(context.Context, *UpdateHashRequest) (*User, error) {
	return nil, status.Error(codes.Unimplemented, "method UpdateHash not implemented")
}

func RegisterDirectoryServer(s grpc.ServiceRegistrar, srv DirectoryServer) {
	s.RegisterService(&Directory_ServiceDesc, srv)
}

// unaryHandler adapts a typed server method to grpc.MethodHandler.
func unaryHandler[Req any, Resp any](
	fullMethod string,
	call func(DirectoryServer, context.Context, *Req) (*Resp, error),
) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(DirectoryServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(DirectoryServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// Directory_ServiceDesc is the grpc.ServiceDesc for the Directory service.
var Directory_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*DirectoryServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "CreateUser",
			Handler:    unaryHandler(Directory_CreateUser_FullMethodName, DirectoryServer.CreateUser),
		},
		{
			MethodName: "GetUser",
			Handler:    unaryHandler(Directory_GetUser_FullMethodName, DirectoryServer.GetUser),
		},
		{
			MethodName: "DeleteUser",
			Handler:    unaryHandler(Directory_DeleteUser_FullMethodName, DirectoryServer.DeleteUser),
		},
		{
			MethodName: "UpdateHash",
			Handler:    unaryHandler(Directory_UpdateHash_FullMethodName, DirectoryServer.UpdateHash),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "keydir/directory.json",
}

// DirectoryClient is the client API for the Directory service.
type DirectoryClient interface {
	CreateUser(ctx context.Context, in *CreateUserRequest, opts ...grpc.CallOption) (*User, error)
	GetUser(ctx context.Context, in *GetUserRequest, opts ...grpc.CallOption) (*User, error)
	DeleteUser(ctx context.Context, in *DeleteUserRequest, opts ...grpc.CallOption) (*DeleteUserResponse, error)
	UpdateHash(ctx context.Context, in *UpdateHashRequest, opts ...grpc.CallOption) (*User, error)
}

type directoryClient struct {
	cc grpc.ClientConnInterface
}

// NewDirectoryClient returns a client that always speaks the JSON subtype.
func NewDirectoryClient(cc grpc.ClientConnInterface) DirectoryClient {
	return &directoryClient{cc: cc}
}

func (c *directoryClient) invoke(ctx context.Context, method string, in, out any, opts []grpc.CallOption) error {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(codec.Name)}, opts...)
	return c.cc.Invoke(ctx, method, in, out, opts...)
}

func (c *directoryClient) CreateUser(ctx context.Context, in *CreateUserRequest, opts ...grpc.CallOption) (*User, error) {
	out := new(User)
	if err := c.invoke(ctx, Directory_CreateUser_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *directoryClient) GetUser(ctx context.Context, in *GetUserRequest, opts ...grpc.CallOption) (*User, error) {
	out := new(User)
	if err := c.invoke(ctx, Directory_GetUser_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *directoryClient) DeleteUser(ctx context.Context, in *DeleteUserRequest, opts ...grpc.CallOption) (*DeleteUserResponse, error) {
	out := new(DeleteUserResponse)
	if err := c.invoke(ctx, Directory_DeleteUser_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *directoryClient) UpdateHash(ctx context.Context, in *UpdateHashRequest, opts ...grpc.CallOption) (*User, error) {
	out := new(User)
	if err := c.invoke(ctx, Directory_UpdateHash_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}
