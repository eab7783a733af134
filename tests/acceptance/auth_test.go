package acceptance

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/rhythmicsouls/auth-gateway/internal/dto"
)

func (s *Suite) postJSON(path string, payload any) *http.Response {
	body, err := json.Marshal(payload)
	s.Require().NoError(err)

	resp, err := s.Client.Post(s.BaseURL+path, "application/json", bytes.NewBuffer(body))
	s.Require().NoError(err)
	return resp
}

func (s *Suite) TestRegister_Success() {
	resp := s.postJSON("/api/auth/register", dto.RegisterRequest{
		FirstName: "Reg",
		Email:     "register-success@example.com",
		Password:  "pw123",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusCreated, resp.StatusCode)

	var user dto.UserResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&user))
	s.Equal("register-success@example.com", user.Email)
	s.Equal("Reg", user.FirstName)
	s.NotEmpty(user.ID)

	cookies := resp.Cookies()
	s.NotEmpty(cookies, "Should have session cookie")
	s.Equal("session", cookies[0].Name)
	s.True(cookies[0].HttpOnly)
}

func (s *Suite) TestRegister_DuplicateEmail() {
	req := dto.RegisterRequest{
		FirstName: "Dup",
		Email:     "duplicate@example.com",
		Password:  "pw123",
	}

	resp1 := s.postJSON("/api/auth/register", req)
	resp1.Body.Close()
	s.Equal(http.StatusCreated, resp1.StatusCode)

	resp2 := s.postJSON("/api/auth/register", req)
	defer resp2.Body.Close()

	s.Equal(http.StatusConflict, resp2.StatusCode)

	var errResp dto.ErrorResponse
	s.Require().NoError(json.NewDecoder(resp2.Body).Decode(&errResp))
	s.Equal("Conflict", errResp.Error)
}

func (s *Suite) TestRegister_InvalidEmail() {
	resp := s.postJSON("/api/auth/register", dto.RegisterRequest{
		FirstName: "Bad",
		Email:     "invalid-email",
		Password:  "pw123",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *Suite) TestLogin_FullSessionLifecycle() {
	// Register, then log in on a fresh client to prove the password
	// path works independent of the registration session.
	resp := s.postJSON("/api/auth/register", dto.RegisterRequest{
		FirstName: "Flow",
		Email:     "lifecycle@example.com",
		Password:  "pw123",
	})
	resp.Body.Close()
	s.Require().Equal(http.StatusCreated, resp.StatusCode)

	s.SetupTest() // fresh cookie jar

	resp = s.postJSON("/api/auth/login", dto.LoginRequest{
		Email:    "lifecycle@example.com",
		Password: "pw123",
	})
	resp.Body.Close()
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	// The jar now carries the session cookie.
	userResp, err := s.Client.Get(s.BaseURL + "/api/auth/user")
	s.Require().NoError(err)
	defer userResp.Body.Close()
	s.Equal(http.StatusOK, userResp.StatusCode)

	var user dto.UserResponse
	s.Require().NoError(json.NewDecoder(userResp.Body).Decode(&user))
	s.Equal("lifecycle@example.com", user.Email)

	// Logout kills the session.
	logoutResp, err := s.Client.Post(s.BaseURL+"/api/auth/logout", "application/json", nil)
	s.Require().NoError(err)
	logoutResp.Body.Close()
	s.Equal(http.StatusOK, logoutResp.StatusCode)

	afterResp, err := s.Client.Get(s.BaseURL + "/api/auth/user")
	s.Require().NoError(err)
	defer afterResp.Body.Close()
	s.Equal(http.StatusUnauthorized, afterResp.StatusCode)
}

func (s *Suite) TestLogin_WrongPassword() {
	resp := s.postJSON("/api/auth/register", dto.RegisterRequest{
		FirstName: "Wrong",
		Email:     "wrong-password@example.com",
		Password:  "pw123",
	})
	resp.Body.Close()
	s.Require().Equal(http.StatusCreated, resp.StatusCode)

	resp = s.postJSON("/api/auth/login", dto.LoginRequest{
		Email:    "wrong-password@example.com",
		Password: "nope",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *Suite) TestUser_WithoutSession() {
	resp, err := s.Client.Get(s.BaseURL + "/api/auth/user")
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *Suite) TestGoogle_NotConfigured() {
	resp, err := s.Client.Get(s.BaseURL + "/api/auth/google")
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *Suite) TestLogout_WithoutSession() {
	resp, err := s.Client.Get(s.BaseURL + "/api/auth/logout")
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)
}
