package config

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/juniortalk/juniortalk-be/internal/delivery/http/handler"
	"github.com/juniortalk/juniortalk-be/internal/delivery/http/middleware"
	"github.com/juniortalk/juniortalk-be/internal/delivery/http/repository"
	"github.com/juniortalk/juniortalk-be/internal/delivery/http/route"
	"github.com/juniortalk/juniortalk-be/internal/delivery/http/usecase"
	"github.com/juniortalk/juniortalk-be/internal/pkg/audio"
	"github.com/juniortalk/juniortalk-be/internal/pkg/llm"
	"github.com/juniortalk/juniortalk-be/internal/pkg/validate"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"gorm.io/gorm"
)

type BootstrapConfig struct {
	Api       *fiber.App
	Config    *viper.Viper
	DB        *gorm.DB
	Log       *logrus.Logger
	Validator *validate.Validator
}

func Bootstrap(config *BootstrapConfig) {

	mid := middleware.NewMiddleware(&middleware.MiddlewareConfig{
		Log:    config.Log,
		Config: config.Config,
	})

	apiKey := ""
	model := ""
	baseURL := ""
	audioDir := "audio"
	var hintDelay time.Duration
	if config.Config != nil {
		apiKey = config.Config.GetString("llm.gemini.api_key")
		model = config.Config.GetString("llm.gemini.model")
		baseURL = config.Config.GetString("llm.gemini.base_url")
		if v := config.Config.GetString("practice.audio_dir"); v != "" {
			audioDir = v
		}
		if v := config.Config.GetInt("practice.hint_delay_seconds"); v > 0 {
			hintDelay = time.Duration(v) * time.Second
		}
	}

	gemini := llm.NewGeminiClient(apiKey, model, baseURL, config.Validator)
	scenarioRepo := repository.NewScenarioRepository(config.DB)
	practiceUsecase := usecase.NewPracticeUsecase(usecase.PracticeConfig{
		DB:            config.DB,
		Log:           config.Log,
		Repository:    scenarioRepo,
		Conversations: gemini,
		Avatars:       gemini,
		Speech:        audio.NewSynthesizer(audioDir),
		HintDelay:     hintDelay,
	})
	practiceHandler := handler.NewPracticeHandler(config.Validator, config.Log, practiceUsecase)

	route.Setup(&route.RouteConfig{
		Api:             config.Api,
		Middleware:      mid,
		PracticeHandler: practiceHandler,
	})

}
