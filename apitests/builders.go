package apitests

import (
	"math/rand"
	"strconv"
	"strings"

	"github.com/r2r-testing/api-contract-tests/client"
	"github.com/r2r-testing/api-contract-tests/servicedef"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// Kinds of captured entity IDs.
const (
	KindCollection = "collection"
	KindDocument   = "document"
)

// Session keys for the registered test user.
const (
	keyUserEmail    = "user.email"
	keyUserPassword = "user.password"
	keyPendingEmail = "pending.email"
	keyPendingPass  = "pending.password"
)

// TestPassword is the password used for users that the catalog registers.
const TestPassword = "TestPassword123!"

var (
	collectionIDPaths = []string{"collection_id", "results.collection_id", "results.id", "id"}
	documentIDPaths   = []string{"document_id", "results.document_id", "results.id", "id"}
	accessTokenPaths  = []string{"access_token", "results.access_token.token", "results.access_token"}
)

// endpoints builds requests against named endpoints of an API definition.
type endpoints struct {
	api *servicedef.Config
}

func (e endpoints) call(method client.Method, name string, opts ...client.RequestOption) BuildFunc {
	return func(*Session) (client.RequestSpec, error) {
		path, err := e.api.Path(name)
		if err != nil {
			return client.RequestSpec{}, err
		}
		return client.NewRequestSpec(method, path, opts...)
	}
}

func (e endpoints) callWith(method client.Method, name string, opts func(*Session) []client.RequestOption) BuildFunc {
	return func(s *Session) (client.RequestSpec, error) {
		path, err := e.api.Path(name)
		if err != nil {
			return client.RequestSpec{}, err
		}
		return client.NewRequestSpec(method, path, opts(s)...)
	}
}

// at targets a fixed entity ID, such as one that is known not to exist.
func (e endpoints) at(method client.Method, name, id string, opts ...client.RequestOption) BuildFunc {
	return func(*Session) (client.RequestSpec, error) {
		path, err := e.api.EntityPath(name, id)
		if err != nil {
			return client.RequestSpec{}, err
		}
		return client.NewRequestSpec(method, path, opts...)
	}
}

// IDPicker chooses a captured ID of a kind from the session.
type IDPicker func(s *Session, kind string) (string, bool)

var (
	pickFirst   IDPicker = (*Session).First
	pickTake    IDPicker = (*Session).Take
	pickRemoved IDPicker = (*Session).Removed
)

// on targets a captured entity; the scenario is skipped if there is none.
func (e endpoints) on(method client.Method, name, kind string, pick IDPicker, opts ...client.RequestOption) BuildFunc {
	return func(s *Session) (client.RequestSpec, error) {
		id, ok := pick(s, kind)
		if !ok {
			return client.RequestSpec{}, Skip("no %s ID was captured", kind)
		}
		path, err := e.api.EntityPath(name, id)
		if err != nil {
			return client.RequestSpec{}, err
		}
		return client.NewRequestSpec(method, path, opts...)
	}
}

// lookupString returns the first string found at any of the dotted paths.
func lookupString(body client.Body, paths ...string) (string, bool) {
	for _, p := range paths {
		if v := body.Lookup(p); v.IsString() && v.StringValue() != "" {
			return v.StringValue(), true
		}
	}
	return "", false
}

// captureID remembers the created entity's ID when the call succeeded.
func captureID(kind string, paths ...string) CaptureFunc {
	return func(s *Session, outcome client.Outcome) {
		if outcome.StatusCode != 200 {
			return
		}
		if id, ok := lookupString(outcome.Body, paths...); ok {
			s.Remember(kind, id)
		}
	}
}

func captureToken(s *Session, outcome client.Outcome) {
	if outcome.StatusCode != 200 {
		return
	}
	if token, ok := lookupString(outcome.Body, accessTokenPaths...); ok {
		s.SetToken(token)
	}
}

func jsonObject(m map[string]interface{}) ldvalue.Value {
	return ldvalue.CopyArbitraryValue(m)
}

// page returns offset and limit query parameters; undefined values are omitted.
func page(offset, limit ldvalue.OptionalInt) []client.RequestOption {
	var opts []client.RequestOption
	if n, ok := offset.Get(); ok {
		opts = append(opts, client.WithQuery("offset", strconv.Itoa(n)))
	}
	if n, ok := limit.Get(); ok {
		opts = append(opts, client.WithQuery("limit", strconv.Itoa(n)))
	}
	return opts
}

const emailAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// randomEmail returns an address of the form test_<10 random characters>@example.com.
func randomEmail() string {
	var b strings.Builder
	b.WriteString("test_")
	for i := 0; i < 10; i++ {
		b.WriteByte(emailAlphabet[rand.Intn(len(emailAlphabet))])
	}
	b.WriteString("@example.com")
	return b.String()
}
