package apitests

import (
	"fmt"
	"strings"

	"github.com/r2r-testing/api-contract-tests/client"
	"github.com/r2r-testing/api-contract-tests/servicedef"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

const (
	get  = client.MethodGet
	post = client.MethodPost
	put  = client.MethodPut
	del  = client.MethodDelete
)

// R2RCatalog returns the scenarios for an R2R-style document and RAG API. Endpoint names refer
// to keys of api.Endpoints.
func R2RCatalog(api *servicedef.Config) Catalog {
	e := endpoints{api: api}
	return Catalog{
		Name: "R2R",
		Probe: Scenario{
			Label:       "API availability check",
			Description: "Verify the API is reachable before running scenarios",
			Expect:      200,
			Build:       e.call(get, "health"),
			Anonymous:   true,
		},
		Categories: []Category{
			authenticationCategory(e),
			collectionsCategory(e),
			documentCreationCategory(e),
			documentRetrievalCategory(e),
			documentUpdateCategory(e),
			searchCategory(e),
			ragCategory(e),
			documentDeletionCategory(e),
		},
	}
}

func credentials(email, password string) client.RequestOption {
	return client.WithBody(jsonObject(map[string]interface{}{"email": email, "password": password}))
}

func registerNewUser(e endpoints) BuildFunc {
	return func(s *Session) (client.RequestSpec, error) {
		email := randomEmail()
		s.Set(keyPendingEmail, email)
		s.Set(keyPendingPass, TestPassword)
		return e.call(post, "users_register", credentials(email, TestPassword))(s)
	}
}

func captureRegisteredUser(s *Session, outcome client.Outcome) {
	if outcome.StatusCode != 200 {
		return
	}
	email, _ := s.Get(keyPendingEmail)
	password, _ := s.Get(keyPendingPass)
	s.Set(keyUserEmail, email)
	s.Set(keyUserPassword, password)
}

// asUser builds a request with the registered user's e-mail and the given password, or the
// user's own password if password is empty.
func asUser(e endpoints, endpoint, password string) BuildFunc {
	return func(s *Session) (client.RequestSpec, error) {
		email, ok := s.Get(keyUserEmail)
		if !ok {
			return client.RequestSpec{}, Skip("no test user was registered")
		}
		if password == "" {
			password, _ = s.Get(keyUserPassword)
		}
		return e.call(post, endpoint, credentials(email, password))(s)
	}
}

func requireToken(build BuildFunc) BuildFunc {
	return func(s *Session) (client.RequestSpec, error) {
		if s.Token() == "" {
			return client.RequestSpec{}, Skip("not logged in")
		}
		return build(s)
	}
}

func authenticationCategory(e endpoints) Category {
	return Category{
		Name: "Authentication",
		Scenarios: []Scenario{
			{
				Label: "Register new user", Description: "Create new user account", Expect: 200,
				Build: registerNewUser(e), Capture: captureRegisteredUser, Anonymous: true,
			},
			{
				Label: "Register with weak password", Description: "Test password validation", Expect: 400,
				Build: func(s *Session) (client.RequestSpec, error) {
					return e.call(post, "users_register", credentials(randomEmail(), "weak"))(s)
				},
				Anonymous: true,
			},
			{
				Label: "Register with invalid email", Description: "Test email format validation", Expect: 400,
				Build: e.call(post, "users_register", credentials("invalid-email", TestPassword)), Anonymous: true,
			},
			{
				Label: "Register duplicate user", Description: "Test duplicate email prevention", Expect: 400,
				Build: asUser(e, "users_register", ""), Anonymous: true,
			},
			{
				Label: "Login with valid credentials", Description: "Successful authentication", Expect: 200,
				Build: asUser(e, "users_login", ""), Capture: captureToken, Anonymous: true,
			},
			{
				Label: "Login with wrong password", Description: "Test authentication failure", Expect: 401,
				Build: asUser(e, "users_login", "WrongPassword123!"), Anonymous: true,
			},
			{
				Label: "Login with non-existent user", Description: "Test login for unknown user", Expect: 401,
				Build: e.call(post, "users_login", credentials("nonexistent@example.com", "SomePassword123!")), Anonymous: true,
			},
			{
				Label: "Get authenticated user profile", Description: "Retrieve current user information", Expect: 200,
				Build: requireToken(e.call(get, "users_profile")),
			},
			{
				Label: "Get profile without auth", Description: "Test authentication requirement", Expect: 401,
				Build: e.call(get, "users_profile"), Anonymous: true,
			},
			{
				Label: "Login with empty credentials", Description: "Test validation of empty inputs", Expect: 400,
				Build: e.call(post, "users_login", credentials("", "")), Anonymous: true,
			},
			{
				Label: "Register with special chars in email", Description: "Test valid special characters in email", Expect: 200,
				Build: func(s *Session) (client.RequestSpec, error) {
					local := strings.TrimSuffix(randomEmail(), "@example.com")
					return e.call(post, "users_register", credentials(local+"+special@example.com", TestPassword))(s)
				},
				Anonymous: true,
			},
			{
				Label: "Register with long password", Description: "Test password length handling", Expect: 200,
				Build: func(s *Session) (client.RequestSpec, error) {
					return e.call(post, "users_register", credentials(randomEmail(), strings.Repeat("A", 100)+"1!"))(s)
				},
				Anonymous: true,
			},
		},
	}
}

func collectionBody(fields map[string]interface{}) client.RequestOption {
	return client.WithBody(jsonObject(fields))
}

func collectionsCategory(e endpoints) Category {
	captureCollection := captureID(KindCollection, collectionIDPaths...)
	return Category{
		Name: "Collections",
		Scenarios: []Scenario{
			{
				Label: "Create basic collection", Description: "Create new document collection", Expect: 200,
				Build: e.call(post, "collections_create", collectionBody(map[string]interface{}{
					"name": "Test Collection", "description": "A test collection for API testing",
				})),
				Capture: captureCollection,
			},
			{
				Label: "Create collection without description", Description: "Test minimal required fields", Expect: 200,
				Build: e.call(post, "collections_create", collectionBody(map[string]interface{}{"name": "Minimal Collection"})),
			},
			{
				Label: "Create collection with empty name", Description: "Test name validation", Expect: 400,
				Build: e.call(post, "collections_create", collectionBody(map[string]interface{}{"name": "", "description": "No name"})),
			},
			{
				Label: "Create collection with long name", Description: "Test name length handling", Expect: 200,
				Build: e.call(post, "collections_create", collectionBody(map[string]interface{}{
					"name": strings.Repeat("Collection ", 50), "description": "Long name test",
				})),
			},
			{
				Label: "Create collection with special chars", Description: "Test special character support", Expect: 200,
				Build: e.call(post, "collections_create", collectionBody(map[string]interface{}{
					"name": "Test @#$ Collection (特殊)", "description": "Special characters test",
				})),
			},
			{
				Label: "List all collections", Description: "Retrieve all collections", Expect: 200,
				Build: e.call(get, "collections_list", page(ldvalue.NewOptionalInt(0), ldvalue.NewOptionalInt(100))...),
			},
			{
				Label: "List collections with pagination", Description: "Test pagination functionality", Expect: 200,
				Build: e.call(get, "collections_list", page(ldvalue.NewOptionalInt(0), ldvalue.NewOptionalInt(2))...),
			},
			{
				Label: "List collections with offset", Description: "Test offset pagination", Expect: 200,
				Build: e.call(get, "collections_list", page(ldvalue.NewOptionalInt(1), ldvalue.NewOptionalInt(3))...),
			},
			{
				Label: "Get collection by valid ID", Description: "Retrieve specific collection", Expect: 200,
				Build: e.on(get, "collections_retrieve", KindCollection, pickFirst),
			},
			{
				Label: "Get collection with invalid ID", Description: "Test error handling for invalid ID", Expect: 404,
				Build: e.at(get, "collections_retrieve", "invalid-collection-id"),
			},
			{
				Label: "Update collection name", Description: "Modify collection name", Expect: 200,
				Build: e.on(put, "collections_update", KindCollection, pickFirst,
					collectionBody(map[string]interface{}{"name": "Updated Collection Name"})),
			},
			{
				Label: "Update collection description", Description: "Modify collection description", Expect: 200,
				Build: e.on(put, "collections_update", KindCollection, pickFirst,
					collectionBody(map[string]interface{}{"description": "Updated description for testing"})),
			},
			{
				Label: "Update name and description", Description: "Modify multiple fields", Expect: 200,
				Build: e.on(put, "collections_update", KindCollection, pickFirst,
					collectionBody(map[string]interface{}{"name": "Fully Updated Collection", "description": "Both fields updated"})),
			},
			{
				Label: "Update non-existent collection", Description: "Test error for missing collection", Expect: 404,
				Build: e.at(put, "collections_update", "non-existent-id", collectionBody(map[string]interface{}{"name": "Test"})),
			},
			{
				Label: "Rapid creation", Description: "Test API performance", Expect: 200, Repeat: 3,
				Build: func(s *Session) (client.RequestSpec, error) {
					i := s.Iteration()
					return e.call(post, "collections_create", collectionBody(map[string]interface{}{
						"name":        fmt.Sprintf("Rapid Test Collection %d", i),
						"description": fmt.Sprintf("Rapid creation test #%d", i),
					}))(s)
				},
				Capture: captureCollection,
			},
			{
				Label: "Delete collection", Description: "Remove collection", Expect: 200,
				Build: e.on(del, "collections_delete", KindCollection, pickTake),
			},
			{
				Label: "Delete already deleted collection", Description: "Test idempotency of delete", Expect: 404,
				Build: e.on(del, "collections_delete", KindCollection, pickRemoved),
			},
			{
				Label: "Delete non-existent collection", Description: "Test error handling", Expect: 404,
				Build: e.at(del, "collections_delete", "non-existent-id-12345"),
			},
		},
	}
}

// upload builds a multipart document upload. metadata may be nil.
func upload(e endpoints, content string, metadata map[string]interface{}, mode string) BuildFunc {
	return func(s *Session) (client.RequestSpec, error) {
		fields := map[string]interface{}{"ingestion_mode": mode}
		if metadata != nil {
			fields["metadata"] = metadata
		} else {
			fields["metadata"] = "{}"
		}
		return e.call(post, "documents_create",
			client.WithBody(jsonObject(fields)),
			client.WithFile("file", "test_document.txt", []byte(content)))(s)
	}
}

const structuredDocument = `# Title: Research Paper

## Abstract
This paper explores how retrieval improves generation quality.

## Sections
1. Introduction
2. Method
3. Results

| Metric | Value |
|--------|-------|
| Recall | 0.91  |
`

func documentCreationCategory(e endpoints) Category {
	captureDocument := captureID(KindDocument, documentIDPaths...)
	return Category{
		Name: "Document Creation",
		Scenarios: []Scenario{
			{
				Label: "Simple text document with fast mode", Description: "Create a basic text document with minimal metadata", Expect: 200,
				Build: upload(e, "This is a test document about AI and machine learning.",
					map[string]interface{}{"title": "Test Document", "category": "AI"}, "fast"),
				Capture: captureDocument,
			},
			{
				Label: "Hi-res ingestion mode", Description: "Test high-quality document processing", Expect: 200,
				Build: upload(e, "High resolution processing test document with complex content.",
					map[string]interface{}{"title": "Hi-Res Test", "quality": "high"}, "hi-res"),
				Capture: captureDocument,
			},
			{
				Label: "Document with extensive metadata", Description: "Test handling of many metadata fields", Expect: 200,
				Build: upload(e, "Document with rich metadata for filtering tests.", map[string]interface{}{
					"title": "Metadata Rich", "author": "Test Suite", "category": "AI", "version": 2,
					"tags": []interface{}{"test", "metadata", "ai"}, "published": true,
				}, "fast"),
				Capture: captureDocument,
			},
			{
				Label: "Document with special characters and Unicode", Description: "Test Unicode content handling", Expect: 200,
				Build: upload(e, "Unicode test: 人工智能, машинное обучение, café, naïve ✓",
					map[string]interface{}{"title": "Unicode Test 特殊"}, "fast"),
				Capture: captureDocument,
			},
			{
				Label: "Large document (>10KB)", Description: "Test large document ingestion", Expect: 200,
				Build: upload(e, strings.Repeat("Large document content for ingestion testing. ", 300),
					map[string]interface{}{"title": "Large Document", "size": "large"}, "fast"),
				Capture: captureDocument,
			},
			{
				Label: "Document without metadata", Description: "Test creation without metadata", Expect: 200,
				Build:   upload(e, "A document created without any metadata.", nil, "fast"),
				Capture: captureDocument,
			},
			{
				Label: "Empty document", Description: "Test error handling for empty documents", Expect: 400,
				Build: upload(e, "", map[string]interface{}{"title": "Empty Document"}, "fast"),
			},
			{
				Label: "Invalid ingestion mode", Description: "Test validation of ingestion mode parameter", Expect: 400,
				Build: upload(e, "Test document for invalid mode.", map[string]interface{}{"title": "Invalid Mode Test"}, "invalid_mode"),
			},
			{
				Label: "Nested metadata structures", Description: "Test handling of complex nested metadata", Expect: 200,
				Build: upload(e, "Test document with nested metadata.", map[string]interface{}{
					"title": "Nested Metadata",
					"details": map[string]interface{}{
						"author": map[string]interface{}{"name": "John Doe", "email": "john@example.com"},
						"tags": []interface{}{
							map[string]interface{}{"category": "AI", "priority": 1},
							map[string]interface{}{"category": "ML", "priority": 2},
						},
					},
				}, "fast"),
				Capture: captureDocument,
			},
			{
				Label: "Rapid creation", Description: "Test API performance under rapid requests", Expect: 200, Repeat: 3,
				Build: func(s *Session) (client.RequestSpec, error) {
					i := s.Iteration()
					return upload(e, fmt.Sprintf("Rapid creation test document #%d", i),
						map[string]interface{}{"title": fmt.Sprintf("Rapid Test %d", i), "batch": "rapid"}, "fast")(s)
				},
				Capture: captureDocument,
			},
			{
				Label: "Structured markdown document", Description: "Test structured content ingestion", Expect: 200,
				Build:   upload(e, structuredDocument, map[string]interface{}{"title": "Research Paper", "format": "markdown"}, "fast"),
				Capture: captureDocument,
			},
			{
				Label: "Inline content without file", Description: "Create a document from raw text content", Expect: 200,
				Build: e.call(post, "documents_create", client.WithBody(jsonObject(map[string]interface{}{
					"raw_text":       "Inline content document about retrieval-augmented generation.",
					"metadata":       map[string]interface{}{"title": "Inline Content", "source": "inline"},
					"ingestion_mode": "fast",
				}))),
				Capture: captureDocument,
			},
		},
	}
}

func listDocuments(e endpoints, offset, limit ldvalue.OptionalInt, filters map[string]interface{}) BuildFunc {
	opts := page(offset, limit)
	if filters != nil {
		opts = append(opts, client.WithQuery("filters", jsonObject(filters).JSONString()))
	}
	return e.call(get, "documents_list", opts...)
}

func documentRetrievalCategory(e endpoints) Category {
	n := ldvalue.NewOptionalInt
	none := ldvalue.OptionalInt{}
	return Category{
		Name: "Document Retrieval",
		Scenarios: []Scenario{
			{
				Label: "List all documents", Description: "Retrieve all documents", Expect: 200,
				Build: listDocuments(e, n(0), n(100), nil),
			},
			{
				Label: "List documents with pagination (limit=5)", Description: "Test pagination", Expect: 200,
				Build: listDocuments(e, n(0), n(5), nil),
			},
			{
				Label: "List documents with offset and limit", Description: "Test offset pagination", Expect: 200,
				Build: listDocuments(e, n(2), n(3), nil),
			},
			{
				Label: "Get document by valid ID", Description: "Retrieve a specific document", Expect: 200,
				Build: e.on(get, "documents_retrieve", KindDocument, pickFirst),
			},
			{
				Label: "Get document by invalid ID", Description: "Test error handling for invalid document ID", Expect: 404,
				Build: e.at(get, "documents_retrieve", "invalid-document-id-12345"),
			},
			{
				Label: "Get document with malformed ID", Description: "Test validation of document ID format", Expect: 400,
				Build: e.at(get, "documents_retrieve", "@#$%^&*()"),
			},
			{
				Label: "List documents with metadata filter", Description: "Test filtering documents by metadata", Expect: 200,
				Build: listDocuments(e, none, none, map[string]interface{}{"category": "AI"}),
			},
			{
				Label: "List documents with limit=0", Description: "Test edge case: zero limit", Expect: 200,
				Build: listDocuments(e, n(0), n(0), nil),
			},
			{
				Label: "List documents with very large limit", Description: "Test handling of large limit values", Expect: 200,
				Build: listDocuments(e, n(0), n(10000), nil),
			},
			{
				Label: "List documents with negative offset", Description: "Test validation of negative offset values", Expect: 400,
				Build: listDocuments(e, n(-1), n(100), nil),
			},
			{
				Label: "Download document content", Description: "Download original document file", Expect: 200,
				Build: e.on(get, "documents_download", KindDocument, pickFirst),
			},
			{
				Label: "List documents with complex filter", Description: "Test filtering with multiple conditions", Expect: 200,
				Build: listDocuments(e, none, none, map[string]interface{}{"category": "AI", "tags": []interface{}{"test"}}),
			},
		},
	}
}

func metadataUpdate(e endpoints, metadata map[string]interface{}) BuildFunc {
	return e.on(put, "documents_update", KindDocument, pickFirst,
		client.WithBody(jsonObject(map[string]interface{}{"metadata": metadata})))
}

func documentUpdateCategory(e endpoints) Category {
	return Category{
		Name: "Document Update",
		Scenarios: []Scenario{
			{
				Label: "Update document metadata", Description: "Modify existing metadata", Expect: 200,
				Build: metadataUpdate(e, map[string]interface{}{"title": "Updated Title", "status": "reviewed"}),
			},
			{
				Label: "Update with empty metadata", Description: "Test empty metadata update", Expect: 200,
				Build: metadataUpdate(e, map[string]interface{}{}),
			},
			{
				Label: "Add new metadata fields", Description: "Test adding fields", Expect: 200,
				Build: metadataUpdate(e, map[string]interface{}{"reviewer": "QA", "priority": "high"}),
			},
			{
				Label: "Update non-existent document", Description: "Test error for missing document", Expect: 404,
				Build: e.at(put, "documents_update", "00000000-0000-0000-0000-000000000000",
					client.WithBody(jsonObject(map[string]interface{}{"metadata": map[string]interface{}{"title": "Ghost"}}))),
			},
			{
				Label: "Update with nested metadata", Description: "Test nested metadata update", Expect: 200,
				Build: metadataUpdate(e, map[string]interface{}{
					"review": map[string]interface{}{"by": "QA", "scores": map[string]interface{}{"accuracy": 0.9}},
				}),
			},
			{
				Label: "Rapid update", Description: "Test consecutive updates", Expect: 200, Repeat: 3,
				Build: func(s *Session) (client.RequestSpec, error) {
					return metadataUpdate(e, map[string]interface{}{"revision": s.Iteration()})(s)
				},
			},
			{
				Label: "Update with special characters", Description: "Test special characters in metadata", Expect: 200,
				Build: metadataUpdate(e, map[string]interface{}{"title": "Spécial <chars> & \"quotes\" 特殊"}),
			},
			{
				Label: "Update with long metadata values", Description: "Test long metadata values", Expect: 200,
				Build: metadataUpdate(e, map[string]interface{}{"summary": strings.Repeat("Long value. ", 200)}),
			},
			{
				Label: "Update with array metadata", Description: "Test array metadata values", Expect: 200,
				Build: metadataUpdate(e, map[string]interface{}{"tags": []interface{}{"a", "b", "c"}}),
			},
			{
				Label: "Update with mixed data types", Description: "Test mixed metadata value types", Expect: 200,
				Build: metadataUpdate(e, map[string]interface{}{
					"count": 3, "ratio": 0.5, "active": true, "label": "mixed", "nothing": nil,
				}),
			},
		},
	}
}

func search(e endpoints, query string, limit int, settings map[string]interface{}) BuildFunc {
	body := map[string]interface{}{"query": query, "limit": limit}
	if settings != nil {
		body["search_settings"] = settings
	}
	return e.call(post, "retrieval_search", client.WithBody(jsonObject(body)))
}

func searchCategory(e endpoints) Category {
	rapidQueries := []string{"AI ethics", "machine learning", "deep learning", "neural networks"}
	return Category{
		Name: "Search",
		Scenarios: []Scenario{
			{
				Label: "Basic semantic search", Description: "Simple semantic search with default settings", Expect: 200,
				Build: search(e, "What is artificial intelligence?", 10, nil),
			},
			{
				Label: "Semantic search with custom settings", Description: "Test semantic search with specific configuration", Expect: 200,
				Build: search(e, "machine learning algorithms", 10, map[string]interface{}{
					"use_semantic_search": true,
					"chunk_settings":      map[string]interface{}{"index_measure": "l2_distance", "limit": 5},
				}),
			},
			{
				Label: "Hybrid search (semantic + full-text)", Description: "Test hybrid search combining multiple strategies", Expect: 200,
				Build: search(e, "deep learning neural networks", 10, map[string]interface{}{
					"use_hybrid_search": true,
					"hybrid_settings": map[string]interface{}{
						"full_text_weight": 1.0, "semantic_weight": 5.0, "full_text_limit": 200, "rrf_k": 50,
					},
				}),
			},
			{
				Label: "Search with metadata filters", Description: "Test filtered search by metadata", Expect: 200,
				Build: search(e, "AI research", 10, map[string]interface{}{
					"filters": map[string]interface{}{"category": map[string]interface{}{"$eq": "AI"}},
				}),
			},
			{
				Label: "Search with cosine similarity", Description: "Test alternative distance measure", Expect: 200,
				Build: search(e, "natural language processing", 10, map[string]interface{}{
					"chunk_settings": map[string]interface{}{"index_measure": "cosine_distance"},
				}),
			},
			{
				Label: "Search with short query (2 chars)", Description: "Test handling of minimal query length", Expect: 200,
				Build: search(e, "AI", 5, nil),
			},
			{
				Label: "Search with very long query", Description: "Test handling of extensive query text", Expect: 200,
				Build: search(e, strings.Repeat("What are the implications of artificial intelligence and machine learning ", 20), 5, nil),
			},
			{
				Label: "Search with empty query", Description: "Test validation of empty query", Expect: 400,
				Build: search(e, "", 5, nil),
			},
			{
				Label: "Search with special characters", Description: "Test handling of punctuation and special chars", Expect: 200,
				Build: search(e, "What is AI? (Deep Learning & NLP)", 10, nil),
			},
			{
				Label: "Search with Unicode/multilingual query", Description: "Test multilingual search capabilities", Expect: 200,
				Build: search(e, "人工智能 и машинное обучение", 5, nil),
			},
			{
				Label: "Search with limit=1", Description: "Test minimal result limit", Expect: 200,
				Build: search(e, "neural networks", 1, nil),
			},
			{
				Label: "Search with large limit (100)", Description: "Test large result set retrieval", Expect: 200,
				Build: search(e, "AI applications", 100, nil),
			},
			{
				Label: "Search with knowledge graph", Description: "Test knowledge graph-enhanced search", Expect: 200,
				Build: search(e, "Who was Aristotle?", 10, map[string]interface{}{
					"use_graph_search": true,
					"graph_settings":   map[string]interface{}{"enabled": true},
				}),
			},
			{
				Label: "Search with advanced vector settings", Description: "Test fine-tuned vector search parameters", Expect: 200,
				Build: search(e, "quantum computing", 10, map[string]interface{}{
					"chunk_settings": map[string]interface{}{"index_measure": "cosine_distance", "ef_search": 100, "probes": 10},
				}),
			},
			{
				Label: "Rapid search", Description: "Test API performance under load", Expect: 200, Repeat: len(rapidQueries),
				Build: func(s *Session) (client.RequestSpec, error) {
					return search(e, rapidQueries[s.Iteration()-1], 5, nil)(s)
				},
			},
		},
	}
}

func rag(e endpoints, query string, fields map[string]interface{}) BuildFunc {
	body := map[string]interface{}{"query": query}
	for k, v := range fields {
		body[k] = v
	}
	return e.call(post, "retrieval_rag", client.WithBody(jsonObject(body)))
}

func ragCategory(e endpoints) Category {
	return Category{
		Name: "RAG",
		Scenarios: []Scenario{
			{
				Label: "Basic RAG query", Description: "Simple RAG with default settings", Expect: 200,
				Build: rag(e, "What is artificial intelligence?", nil),
			},
			{
				Label: "RAG with custom model config", Description: "Test RAG with specific LLM configuration", Expect: 200,
				Build: rag(e, "Explain machine learning", map[string]interface{}{
					"rag_generation_config": map[string]interface{}{"temperature": 0.7, "max_tokens_to_sample": 500},
				}),
			},
			{
				Label: "RAG with hybrid search", Description: "Combine RAG with hybrid search strategy", Expect: 200,
				Build: rag(e, "What are neural networks?", map[string]interface{}{
					"search_settings": map[string]interface{}{"use_hybrid_search": true, "limit": 5},
				}),
			},
			{
				Label: "RAG with low temperature", Description: "Test deterministic generation settings", Expect: 200,
				Build: rag(e, "Define deep learning", map[string]interface{}{
					"rag_generation_config": map[string]interface{}{"temperature": 0.1},
				}),
			},
			{
				Label: "RAG with task prompt override", Description: "Test custom task prompt", Expect: 200,
				Build: rag(e, "Summarize the documents", map[string]interface{}{
					"task_prompt_override": "Answer in one sentence using the context: {context}\nQuery: {query}",
				}),
			},
			{
				Label: "RAG with metadata filters", Description: "Test RAG restricted by metadata", Expect: 200,
				Build: rag(e, "What does the research paper say?", map[string]interface{}{
					"search_settings": map[string]interface{}{
						"filters": map[string]interface{}{"category": map[string]interface{}{"$eq": "AI"}},
					},
				}),
			},
			{
				Label: "RAG with streaming disabled", Description: "Test non-streaming generation", Expect: 200,
				Build: rag(e, "What is retrieval-augmented generation?", map[string]interface{}{
					"rag_generation_config": map[string]interface{}{"stream": false},
				}),
			},
			{
				Label: "RAG with empty query", Description: "Test validation of empty query", Expect: 400,
				Build: rag(e, "", nil),
			},
			{
				Label: "RAG with multilingual query", Description: "Test multilingual RAG", Expect: 200,
				Build: rag(e, "¿Qué es el aprendizaje automático?", nil),
			},
		},
	}
}

func documentDeletionCategory(e endpoints) Category {
	return Category{
		Name: "Document Deletion",
		Scenarios: []Scenario{
			{
				Label: "Delete valid document", Description: "Remove an existing document", Expect: 200,
				Build: e.on(del, "documents_delete", KindDocument, pickTake),
			},
			{
				Label: "Verify deleted document not found", Description: "Deleted document is gone", Expect: 404,
				Build: e.on(get, "documents_retrieve", KindDocument, pickRemoved),
			},
			{
				Label: "Delete already deleted document", Description: "Test idempotency of delete", Expect: 404,
				Build: e.on(del, "documents_delete", KindDocument, pickRemoved),
			},
			{
				Label: "Delete non-existent document", Description: "Test error for missing document", Expect: 404,
				Build: e.at(del, "documents_delete", "00000000-0000-0000-0000-000000000000"),
			},
			{
				Label: "Delete with malformed ID", Description: "Test validation of document ID format", Expect: 400,
				Build: e.at(del, "documents_delete", "@#$%^&*()"),
			},
			{
				Label: "Delete with empty ID", Description: "Test validation of empty ID", Expect: 400,
				Build: e.at(del, "documents_delete", ""),
			},
			{
				Label: "Sequential deletion", Description: "Delete documents one after another", Expect: 200, Repeat: 2,
				Build: e.on(del, "documents_delete", KindDocument, pickTake),
			},
			{
				Label: "Verify document not in list after deletion", Description: "List documents after deletions", Expect: 200,
				Build: listDocuments(e, ldvalue.NewOptionalInt(0), ldvalue.NewOptionalInt(100), nil),
			},
		},
	}
}
