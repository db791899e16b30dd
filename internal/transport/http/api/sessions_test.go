package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/iammuhammadnoumankhan/talkflow/internal/domain"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionLifecycle(t *testing.T) {
	e := echo.New()
	srv := newFakeOllama(t, &fakeOllama{models: []string{"llama3"}, reply: "hi there"})
	h, _ := newTestHandler(t, srv.URL)

	c, rec := newJSONContext(e, http.MethodPost, "/api/sessions?model=llama3", "")
	require.NoError(t, h.CreateSession(c))
	require.Equal(t, http.StatusOK, rec.Code)
	var created domain.CreateSessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "llama3", created.Model)

	c, rec = newJSONContext(e, http.MethodPost, "/api/chat", `{"message":"Hi","model":"llama3","session_id":"`+created.SessionID+`"}`)
	require.NoError(t, h.Chat(c))
	require.Equal(t, http.StatusOK, rec.Code)

	c, rec = newJSONContext(e, http.MethodGet, "/api/sessions", "")
	require.NoError(t, h.ListSessions(c))
	var list []domain.SessionSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, 2, list[0].MessageCount)

	c, rec = newJSONContext(e, http.MethodGet, "/api/sessions/"+created.SessionID, "")
	c.SetParamNames("session_id")
	c.SetParamValues(created.SessionID)
	require.NoError(t, h.GetSession(c))
	require.Equal(t, http.StatusOK, rec.Code)
	var session domain.Session
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &session))
	require.Len(t, session.Messages, 2)
	assert.Equal(t, "hi there", session.Messages[1].Content)

	c, rec = newJSONContext(e, http.MethodDelete, "/api/sessions/"+created.SessionID, "")
	c.SetParamNames("session_id")
	c.SetParamValues(created.SessionID)
	require.NoError(t, h.DeleteSession(c))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Session deleted successfully"}`, rec.Body.String())

	c, rec = newJSONContext(e, http.MethodGet, "/api/sessions/"+created.SessionID, "")
	c.SetParamNames("session_id")
	c.SetParamValues(created.SessionID)
	require.NoError(t, h.GetSession(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	c, rec = newJSONContext(e, http.MethodDelete, "/api/sessions/"+created.SessionID, "")
	c.SetParamNames("session_id")
	c.SetParamValues(created.SessionID)
	require.NoError(t, h.DeleteSession(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateSessionFromBody(t *testing.T) {
	e := echo.New()
	srv := newFakeOllama(t, &fakeOllama{models: []string{"llama3"}})
	h, _ := newTestHandler(t, srv.URL)

	c, rec := newJSONContext(e, http.MethodPost, "/api/sessions", `{"model":"llama3"}`)
	require.NoError(t, h.CreateSession(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCreateSessionErrors(t *testing.T) {
	e := echo.New()
	srv := newFakeOllama(t, &fakeOllama{models: []string{"llama3"}})
	h, _ := newTestHandler(t, srv.URL)

	c, rec := newJSONContext(e, http.MethodPost, "/api/sessions?model=unknown", "")
	require.NoError(t, h.CreateSession(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, domain.ErrorCodeModelUnavailable, decodeProblem(t, rec)["code"])

	c, rec = newJSONContext(e, http.MethodPost, "/api/sessions", "")
	require.NoError(t, h.CreateSession(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, domain.ErrorCodeInvalidRequest, decodeProblem(t, rec)["code"])

	srv.Close()
	c, rec = newJSONContext(e, http.MethodPost, "/api/sessions?model=llama3", "")
	require.NoError(t, h.CreateSession(c))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
