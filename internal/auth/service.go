package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/pathwaygaza/pathway-back/internal/config"
	"github.com/pathwaygaza/pathway-back/internal/db"
)

var googleOauthConfig *oauth2.Config

var userinfoEndpoint = "https://www.googleapis.com/oauth2/v2/userinfo"

type googleUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func fetchGoogleUser(accessToken string) (googleUser, error) {
	resp, err := http.Get(userinfoEndpoint + "?access_token=" + accessToken)
	if err != nil {
		return googleUser{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return googleUser{}, fmt.Errorf("userinfo request failed: %s", resp.Status)
	}

	var info googleUser
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return googleUser{}, err
	}
	if info.ID == "" || info.Email == "" {
		return googleUser{}, fmt.Errorf("userinfo response missing id or email")
	}
	return info, nil
}

func InitGoogle(cfg *config.Config) {
	googleOauthConfig = &oauth2.Config{
		RedirectURL:  cfg.GoogleRedirect,
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleSecret,
		Scopes: []string{
			"openid",
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}
}

// GoogleLoginHandler godoc
// @Summary      Login with Google
// @Description  Redirects to the Google consent screen
// @Tags         auth
// @Produce      json
// @Success      307 {string} string "redirect"
// @Router       /auth/google/login [get]
func GoogleLoginHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		url := googleOauthConfig.AuthCodeURL("state")
		c.Redirect(http.StatusTemporaryRedirect, url)
	}
}

// GoogleCallbackHandler godoc
// @Summary      Google OAuth callback
// @Description  Provisions the externally-managed account on first sight and returns a local token pair
// @Tags         auth
// @Produce      json
// @Success      200 {object} map[string]string
// @Failure      400 {object} map[string]string
// @Router       /auth/google/callback [get]
func GoogleCallbackHandler(cfg *config.Config, log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		code := c.Query("code")
		token, err := googleOauthConfig.Exchange(context.Background(), code)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to exchange token"})
			return
		}

		userInfo, err := fetchGoogleUser(token.AccessToken)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to get user info"})
			return
		}

		user, err := db.ProvisionExternalUser(c.Request.Context(), userInfo.ID, userInfo.Email, userInfo.Name)
		if err != nil {
			log.Errorw("failed to provision google user", "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save user"})
			return
		}

		pair, err := IssueTokenPair([]byte(cfg.JWTSecret), user.Email)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sign token"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"access_token":  pair.AccessToken,
			"refresh_token": pair.RefreshToken,
			"email":         user.Email,
		})
	}
}
