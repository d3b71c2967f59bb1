package adaptor

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol"
	"github.com/golang-jwt/jwt/v4"
	"github.com/xh-polaris/brandstudio-core-api/biz/infra/config"
	"github.com/xh-polaris/brandstudio-core-api/pkg/logs"
	"go.opentelemetry.io/otel/propagation"
)

const hertzContext = "hertz_context"

func InjectContext(ctx context.Context, c *app.RequestContext) context.Context {
	return context.WithValue(ctx, hertzContext, c)
}

func ExtractContext(ctx context.Context) (*app.RequestContext, error) {
	c, ok := ctx.Value(hertzContext).(*app.RequestContext)
	if !ok {
		return nil, errors.New("hertz context not found")
	}
	return c, nil
}

// ExtractUserId 从jwt中解析用户id
func ExtractUserId(ctx context.Context) (userId string, err error) {
	userId, _, err = ExtractUserIdAndRole(ctx)
	return
}

// ExtractUserIdAndRole 从jwt中解析用户id与角色
func ExtractUserIdAndRole(ctx context.Context) (userId, role string, err error) {
	defer func() {
		if err != nil {
			logs.CtxInfof(ctx, "extract user meta fail, err=%v", err)
		}
	}()
	c, err := ExtractContext(ctx)
	if err != nil {
		return
	}
	tokenString := string(c.GetHeader("Authorization"))
	token, err := jwt.Parse(tokenString, func(_ *jwt.Token) (interface{}, error) {
		return jwt.ParseECPublicKeyFromPEM([]byte(config.GetConfig().Auth.PublicKey))
	})
	if err != nil {
		return
	}
	if !token.Valid {
		err = errors.New("token is not valid")
		return
	}
	data, err := json.Marshal(token.Claims)
	if err != nil {
		return
	}
	var claims map[string]interface{}
	if err = json.Unmarshal(data, &claims); err != nil {
		return
	}
	uid, ok := claims["userId"].(string)
	if !ok {
		err = errors.New("userId claim missing")
		return
	}
	r, _ := claims["role"].(string)
	return uid, r, nil
}

var _ propagation.TextMapCarrier = &headerProvider{}

type headerProvider struct {
	headers *protocol.ResponseHeader
}

// Get a value from metadata by key
func (m *headerProvider) Get(key string) string {
	return m.headers.Get(key)
}

// Set a value to metadata by k/v
func (m *headerProvider) Set(key, value string) {
	m.headers.Set(key, value)
}

// Keys Iteratively get all keys of metadata
func (m *headerProvider) Keys() []string {
	out := make([]string, 0)

	m.headers.VisitAll(func(key, value []byte) {
		out = append(out, string(key))
	})

	return out
}
