package acceptance

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/neuralfit/backend/internal/dto"
)

func (s *Suite) putJSON(client *http.Client, path string, payload any) *http.Response {
	body, err := json.Marshal(payload)
	s.Require().NoError(err)

	req, err := http.NewRequest(http.MethodPut, s.BaseURL+path, bytes.NewReader(body))
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	s.Require().NoError(err)
	return resp
}

func (s *Suite) TestProfile_Update() {
	client := s.registerClient("profile@example.com")

	username := "profiled_user"
	bio := "learning to breathe"
	resp := s.putJSON(client, "/api/users/profile", dto.UpdateProfileRequest{
		Username: &username,
		Bio:      &bio,
	})
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)
	userResp := decodeBody[dto.UserResponse](s, resp)
	s.Require().NotNil(userResp.User.Username)
	s.Equal("profiled_user", *userResp.User.Username)
	s.Require().NotNil(userResp.User.Bio)
	s.Equal("learning to breathe", *userResp.User.Bio)
}

func (s *Suite) TestProfile_UsernameConflict() {
	first := s.registerClient("first@example.com")
	second := s.registerClient("second@example.com")

	username := "taken_name"

	resp := s.putJSON(first, "/api/users/profile", dto.UpdateProfileRequest{Username: &username})
	resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)

	resp = s.putJSON(second, "/api/users/profile", dto.UpdateProfileRequest{Username: &username})
	defer resp.Body.Close()
	s.Equal(http.StatusConflict, resp.StatusCode)
}

func (s *Suite) TestPublicProfile() {
	client := s.registerClient("public@example.com")

	username := "findme"
	resp := s.putJSON(client, "/api/users/profile", dto.UpdateProfileRequest{Username: &username})
	resp.Body.Close()

	// No authentication required
	resp = s.getJSON(s.newClient(), "/api/users/public/findme")
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)
	profile := decodeBody[dto.PublicProfileResponse](s, resp)
	s.Equal("findme", profile.User.Username)

	missing := s.getJSON(s.newClient(), "/api/users/public/ghost")
	defer missing.Body.Close()
	s.Equal(http.StatusNotFound, missing.StatusCode)
}

func (s *Suite) TestGetUserByID() {
	owner := s.registerClient("lookup@example.com")

	me := s.getJSON(owner, "/api/auth/me")
	s.Equal(http.StatusOK, me.StatusCode)
	self := decodeBody[dto.UserResponse](s, me)
	me.Body.Close()

	viewer := s.registerClient("viewer@example.com")
	resp := s.getJSON(viewer, "/api/users/"+self.User.ID)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)
	found := decodeBody[dto.UserResponse](s, resp)
	s.Equal(self.User.ID, found.User.ID)
	s.Equal("lookup@example.com", found.User.Email)

	anon := s.getJSON(s.newClient(), "/api/users/"+self.User.ID)
	defer anon.Body.Close()
	s.Equal(http.StatusUnauthorized, anon.StatusCode)
}

func (s *Suite) TestListUsers_AdminOnly() {
	client := s.registerClient("plain@example.com")

	resp := s.getJSON(client, "/api/users")
	defer resp.Body.Close()

	s.Equal(http.StatusForbidden, resp.StatusCode)
}

func (s *Suite) TestListUsers_AsAdmin() {
	client := s.registerClient("promoted@example.com")

	_, err := s.Postgres.DB.Exec(`UPDATE users SET role = 'admin' WHERE email = $1`, "promoted@example.com")
	s.Require().NoError(err)

	resp := s.getJSON(client, "/api/users")
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)
	users := decodeBody[dto.UsersResponse](s, resp)
	s.Len(users.Users, 1)
}

func (s *Suite) TestDeleteAccount() {
	client := s.registerClient("deleted@example.com")

	req, err := http.NewRequest(http.MethodDelete, s.BaseURL+"/api/users/me", nil)
	s.Require().NoError(err)

	resp, err := client.Do(req)
	s.Require().NoError(err)
	resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)

	// Login no longer possible
	login := s.postJSON(s.newClient(), "/api/auth/login", dto.LoginRequest{
		Email:    "deleted@example.com",
		Password: "Password123",
	})
	defer login.Body.Close()
	s.Equal(http.StatusUnauthorized, login.StatusCode)
}
