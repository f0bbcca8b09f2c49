package acceptance

import (
	"net/http"

	"github.com/neuralfit/backend/internal/dto"
)

func registerPayload(email string) dto.RegisterRequest {
	return dto.RegisterRequest{
		Email:    email,
		Password: "Password123",
		FullName: "Test User",
	}
}

func cookieByName(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func (s *Suite) TestRegister_Success() {
	client := s.newClient()

	resp := s.postJSON(client, "/api/auth/register", registerPayload("test@example.com"))
	defer resp.Body.Close()

	s.Equal(http.StatusCreated, resp.StatusCode)

	userResp := decodeBody[dto.UserResponse](s, resp)
	s.Equal("test@example.com", userResp.User.Email)
	s.Equal("user", userResp.User.Role)
	s.NotEmpty(userResp.User.ID)

	access := cookieByName(resp, "accessToken")
	s.Require().NotNil(access, "Should set access token cookie")
	s.True(access.HttpOnly)

	refresh := cookieByName(resp, "refreshToken")
	s.Require().NotNil(refresh, "Should set refresh token cookie")
	s.Equal("/api/auth/refresh-token", refresh.Path)
}

func (s *Suite) TestRegister_DuplicateEmail() {
	client := s.newClient()

	resp1 := s.postJSON(client, "/api/auth/register", registerPayload("duplicate@example.com"))
	resp1.Body.Close()
	s.Equal(http.StatusCreated, resp1.StatusCode)

	resp2 := s.postJSON(s.newClient(), "/api/auth/register", registerPayload("duplicate@example.com"))
	defer resp2.Body.Close()

	s.Equal(http.StatusConflict, resp2.StatusCode)

	errResp := decodeBody[dto.ErrorResponse](s, resp2)
	s.Equal("Conflict", errResp.Error)
}

func (s *Suite) TestRegister_InvalidEmail() {
	resp := s.postJSON(s.newClient(), "/api/auth/register", registerPayload("invalid-email"))
	defer resp.Body.Close()

	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *Suite) TestRegister_WeakPassword() {
	payload := registerPayload("weak@example.com")
	payload.Password = "alllowercase1"

	resp := s.postJSON(s.newClient(), "/api/auth/register", payload)
	defer resp.Body.Close()

	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *Suite) TestLogin_Success() {
	resp := s.postJSON(s.newClient(), "/api/auth/register", registerPayload("login@example.com"))
	resp.Body.Close()
	s.Equal(http.StatusCreated, resp.StatusCode)

	client := s.newClient()
	resp = s.postJSON(client, "/api/auth/login", dto.LoginRequest{
		Email:    "login@example.com",
		Password: "Password123",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	userResp := decodeBody[dto.UserResponse](s, resp)
	s.Equal("login@example.com", userResp.User.Email)
	s.NotNil(cookieByName(resp, "accessToken"))
	s.NotNil(cookieByName(resp, "refreshToken"))
}

func (s *Suite) TestLogin_InvalidCredentials() {
	resp := s.postJSON(s.newClient(), "/api/auth/register", registerPayload("victim@example.com"))
	resp.Body.Close()

	wrongPassword := s.postJSON(s.newClient(), "/api/auth/login", dto.LoginRequest{
		Email:    "victim@example.com",
		Password: "WrongPassword1",
	})
	defer wrongPassword.Body.Close()
	s.Equal(http.StatusUnauthorized, wrongPassword.StatusCode)
	wrongBody := decodeBody[dto.ErrorResponse](s, wrongPassword)

	unknownEmail := s.postJSON(s.newClient(), "/api/auth/login", dto.LoginRequest{
		Email:    "nobody@example.com",
		Password: "Password123",
	})
	defer unknownEmail.Body.Close()
	s.Equal(http.StatusUnauthorized, unknownEmail.StatusCode)
	unknownBody := decodeBody[dto.ErrorResponse](s, unknownEmail)

	s.Equal(wrongBody.Message, unknownBody.Message, "Both failures should be indistinguishable")
}

func (s *Suite) TestMe() {
	client := s.newClient()
	resp := s.postJSON(client, "/api/auth/register", registerPayload("me@example.com"))
	resp.Body.Close()

	resp = s.getJSON(client, "/api/auth/me")
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)
	userResp := decodeBody[dto.UserResponse](s, resp)
	s.Equal("me@example.com", userResp.User.Email)
}

func (s *Suite) TestMe_Unauthenticated() {
	resp := s.getJSON(s.newClient(), "/api/auth/me")
	defer resp.Body.Close()

	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *Suite) TestRefreshToken_Rotation() {
	client := s.newClient()
	registerResp := s.postJSON(client, "/api/auth/register", registerPayload("rotate@example.com"))
	registerResp.Body.Close()

	oldRefresh := cookieByName(registerResp, "refreshToken")
	s.Require().NotNil(oldRefresh)

	// First exchange succeeds and rotates the cookie
	resp := s.postJSON(client, "/api/auth/refresh-token", nil)
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)

	newRefresh := cookieByName(resp, "refreshToken")
	s.Require().NotNil(newRefresh)
	s.NotEqual(oldRefresh.Value, newRefresh.Value)

	// Replaying the rotated-out token fails and demands re-authentication
	req, err := http.NewRequest(http.MethodPost, s.BaseURL+"/api/auth/refresh-token", nil)
	s.Require().NoError(err)
	req.AddCookie(&http.Cookie{Name: "refreshToken", Value: oldRefresh.Value})

	replay, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer replay.Body.Close()

	s.Equal(http.StatusUnauthorized, replay.StatusCode)
	errResp := decodeBody[dto.ErrorResponse](s, replay)
	s.True(errResp.RequiresReauthentication)
}

func (s *Suite) TestRefreshToken_Missing() {
	resp := s.postJSON(s.newClient(), "/api/auth/refresh-token", nil)
	defer resp.Body.Close()

	s.Equal(http.StatusUnauthorized, resp.StatusCode)
	errResp := decodeBody[dto.ErrorResponse](s, resp)
	s.True(errResp.RequiresReauthentication)
}

func (s *Suite) TestLogout() {
	client := s.newClient()
	resp := s.postJSON(client, "/api/auth/register", registerPayload("logout@example.com"))
	resp.Body.Close()

	resp = s.postJSON(client, "/api/auth/logout", nil)
	resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)

	// The blacklisted access token no longer authenticates; the jar either
	// dropped the cookie or the server rejects it
	resp = s.getJSON(client, "/api/auth/me")
	defer resp.Body.Close()
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *Suite) TestLogout_RevokesRefreshTokenFromBody() {
	client := s.newClient()
	resp := s.postJSON(client, "/api/auth/register", registerPayload("logout-body@example.com"))
	refresh := cookieByName(resp, "refreshToken")
	resp.Body.Close()
	s.Require().NotNil(refresh)

	// The refresh cookie is path-scoped away from logout, so the token
	// travels in the body
	resp = s.postJSON(client, "/api/auth/logout", dto.LogoutRequest{RefreshToken: refresh.Value})
	resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)

	req, err := http.NewRequest(http.MethodPost, s.BaseURL+"/api/auth/refresh-token", nil)
	s.Require().NoError(err)
	req.AddCookie(&http.Cookie{Name: "refreshToken", Value: refresh.Value})

	replay, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer replay.Body.Close()
	s.Equal(http.StatusUnauthorized, replay.StatusCode)
}

func (s *Suite) TestLogout_WithoutSession() {
	resp := s.postJSON(s.newClient(), "/api/auth/logout", nil)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)
}
