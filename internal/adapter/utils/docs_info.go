// @title           FAQ Bot status API
// @version         1.0
// @description     Read-only status page of the Telegram FAQ bot: latest interactions, counters and health.

// @contact.name    API Support

// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:5000
// @BasePath  /
// @schemes   http https
package utils

//run redis
//docker run -p 6379:6379 -d redis

//swagger init, regenerate after touching a handler annotation
//swag init -g internal/adapter/utils/docs_info.go --parseDependency --parseInternal --dir ./ --output ./cmd/faqbot/docs --outputTypes go
