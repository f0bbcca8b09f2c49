package acceptance

import (
	"net/http"

	"github.com/neuralfit/backend/internal/dto"
)

func (s *Suite) registerClient(email string) *http.Client {
	client := s.newClient()
	resp := s.postJSON(client, "/api/auth/register", registerPayload(email))
	resp.Body.Close()
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	return client
}

func (s *Suite) TestChat_NewConversation() {
	client := s.registerClient("chatter@example.com")

	resp := s.postJSON(client, "/api/chat/chat", dto.ChatRequest{Message: "I've been feeling low"})
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	chatResp := decodeBody[dto.ChatResponse](s, resp)
	s.NotEmpty(chatResp.ConversationID)
	s.Equal("I'm here for you.", chatResp.Response)
	s.Require().Len(chatResp.Messages, 2)
	s.Equal("user", chatResp.Messages[0].Role)
	s.Equal("assistant", chatResp.Messages[1].Role)
}

func (s *Suite) TestChat_ContinuesConversation() {
	client := s.registerClient("continuing@example.com")

	first := s.postJSON(client, "/api/chat/chat", dto.ChatRequest{Message: "hello"})
	firstResp := decodeBody[dto.ChatResponse](s, first)
	first.Body.Close()

	second := s.postJSON(client, "/api/chat/chat", dto.ChatRequest{
		Message:        "still here",
		ConversationID: firstResp.ConversationID,
	})
	defer second.Body.Close()

	s.Equal(http.StatusOK, second.StatusCode)
	secondResp := decodeBody[dto.ChatResponse](s, second)
	s.Equal(firstResp.ConversationID, secondResp.ConversationID)
	s.Len(secondResp.Messages, 4)
}

func (s *Suite) TestChat_MissingMessage() {
	client := s.registerClient("silent@example.com")

	resp := s.postJSON(client, "/api/chat/chat", map[string]string{})
	defer resp.Body.Close()

	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *Suite) TestChat_RequiresAuth() {
	resp := s.postJSON(s.newClient(), "/api/chat/chat", dto.ChatRequest{Message: "anyone there?"})
	defer resp.Body.Close()

	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *Suite) TestConversations_OwnershipEnforced() {
	owner := s.registerClient("owner@example.com")
	intruder := s.registerClient("intruder@example.com")

	created := s.postJSON(owner, "/api/chat/conversations", dto.CreateConversationRequest{Title: "private"})
	convResp := decodeBody[dto.ConversationResponse](s, created)
	created.Body.Close()
	s.Require().Equal(http.StatusCreated, created.StatusCode)

	resp := s.getJSON(intruder, "/api/chat/conversations/"+convResp.Conversation.ID)
	defer resp.Body.Close()
	s.Equal(http.StatusForbidden, resp.StatusCode)

	// The intruder's own list stays empty
	listResp := s.getJSON(intruder, "/api/chat/conversations")
	defer listResp.Body.Close()
	list := decodeBody[dto.ConversationsResponse](s, listResp)
	s.Empty(list.Conversations)
}

func (s *Suite) TestConversations_List() {
	client := s.registerClient("lister@example.com")

	for _, title := range []string{"first", "second"} {
		resp := s.postJSON(client, "/api/chat/conversations", dto.CreateConversationRequest{Title: title})
		resp.Body.Close()
		s.Require().Equal(http.StatusCreated, resp.StatusCode)
	}

	resp := s.getJSON(client, "/api/chat/conversations")
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)
	list := decodeBody[dto.ConversationsResponse](s, resp)
	s.Len(list.Conversations, 2)
}

func (s *Suite) TestChatStatus_Public() {
	resp := s.getJSON(s.newClient(), "/api/chat/status")
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)
	status := decodeBody[dto.StatusResponse](s, resp)
	s.True(status.Ready)
	s.Equal("operational", status.Status)
}
