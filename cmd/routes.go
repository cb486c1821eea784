package cmd

import (
	"fmt"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"invoicegen-backend/routes"
	"invoicegen-backend/services"
	"invoicegen-backend/store/memory"
	"invoicegen-backend/utils"
)

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "Print the HTTP route table",
	RunE: func(cmd *cobra.Command, args []string) error {
		gin.SetMode(gin.ReleaseMode)

		s := memory.New()
		tokens := utils.NewTokenManager(utils.GenerateJWTSecret(), 0)
		r := routes.SetupRouter(routes.Dependencies{
			Store:    s,
			Tokens:   tokens,
			Auth:     services.NewAuthService(s, tokens, 0),
			Invoices: services.NewInvoiceService(s),
			Messages: services.NewMessageService(s, nil),
			AI:       services.NewAIService(s, nil),
		})
		printRoutes(cmd.OutOrStdout(), r)
		return nil
	},
}

var secretCmd = &cobra.Command{
	Use:   "secret",
	Short: "Generate a random JWT_SECRET value",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), utils.GenerateJWTSecret())
	},
}

func init() {
	rootCmd.AddCommand(routesCmd)
	rootCmd.AddCommand(secretCmd)
}

func printRoutes(w io.Writer, r *gin.Engine) {
	for _, route := range r.Routes() {
		fmt.Fprintf(w, "%-6s %s\n", route.Method, route.Path)
	}
}
