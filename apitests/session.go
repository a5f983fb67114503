package apitests

// Session is the state that scenarios pass to later scenarios: the bearer token from a login
// and the IDs of entities that were created.
type Session struct {
	token     string
	iteration int
	ids       map[string][]string
	removed   map[string]string
	values    map[string]string
}

func NewSession() *Session {
	return &Session{
		ids:     make(map[string][]string),
		removed: make(map[string]string),
		values:  make(map[string]string),
	}
}

// Token returns the current bearer token, or "" if nobody has logged in.
func (s *Session) Token() string { return s.token }

func (s *Session) SetToken(token string) { s.token = token }

// Iteration is the 1-based repetition number while a repeated scenario is being built, and
// 0 otherwise.
func (s *Session) Iteration() int { return s.iteration }

// Remember adds a captured entity ID of the given kind.
func (s *Session) Remember(kind, id string) {
	if id == "" {
		return
	}
	s.ids[kind] = append(s.ids[kind], id)
}

// IDs returns the captured IDs of a kind, oldest first.
func (s *Session) IDs(kind string) []string {
	return append([]string(nil), s.ids[kind]...)
}

// First returns the oldest captured ID of a kind.
func (s *Session) First(kind string) (string, bool) {
	ids := s.ids[kind]
	if len(ids) == 0 {
		return "", false
	}
	return ids[0], true
}

// Latest returns the most recently captured ID of a kind.
func (s *Session) Latest(kind string) (string, bool) {
	ids := s.ids[kind]
	if len(ids) == 0 {
		return "", false
	}
	return ids[len(ids)-1], true
}

// Take removes and returns the most recently captured ID of a kind. The ID is kept as the
// kind's last removed ID.
func (s *Session) Take(kind string) (string, bool) {
	ids := s.ids[kind]
	if len(ids) == 0 {
		return "", false
	}
	id := ids[len(ids)-1]
	s.ids[kind] = ids[:len(ids)-1]
	s.removed[kind] = id
	return id, true
}

// Removed returns the ID most recently returned by Take for a kind.
func (s *Session) Removed(kind string) (string, bool) {
	id, ok := s.removed[kind]
	return id, ok
}

// Set stores a named value, such as the e-mail address of a registered user.
func (s *Session) Set(key, value string) { s.values[key] = value }

func (s *Session) Get(key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}
