package command

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"eshelf/internal/microservices/http-api/dto"
	"eshelf/internal/microservices/http-api/models"
)

// engage.go covers reviews, donations, feedback and recommendations.

var reviewCmd = &cobra.Command{
	Use:   "review [isbn] [comment]",
	Short: "Review a book",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := dto.CreateReviewDTO{
			BookISBN: args[0],
			Comment:  strings.Join(args[1:], " "),
		}
		if cmd.Flags().Changed("rating") {
			rating, _ := cmd.Flags().GetInt("rating")
			if rating < 1 || rating > 5 {
				return fmt.Errorf("rating must be between 1 and 5")
			}
			req.Rating = &rating
		}

		c, _, err := authenticatedClient()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()

		review, err := c.CreateReview(ctx, req)
		if err != nil {
			return err
		}
		success(cmd, "Review posted for %s %s", review.BookISBN, color.YellowString(strings.Repeat("★", review.Rating)))
		return nil
	},
}

var donateCmd = &cobra.Command{
	Use:   "donate [amount]",
	Short: "Make a donation (minimum 1000)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var amount int64
		if _, err := fmt.Sscan(args[0], &amount); err != nil {
			return fmt.Errorf("invalid amount %q", args[0])
		}

		req := dto.CreateDonationRequest{Amount: amount}
		req.Method, _ = cmd.Flags().GetString("method")
		req.DonorName, _ = cmd.Flags().GetString("name")
		req.DonorEmail, _ = cmd.Flags().GetString("email")
		req.Message, _ = cmd.Flags().GetString("message")
		if req.Method == models.DonationMethodScratchCard {
			card := &dto.ScratchCardInfo{}
			card.CardType, _ = cmd.Flags().GetString("card-type")
			card.Serial, _ = cmd.Flags().GetString("card-serial")
			card.Code, _ = cmd.Flags().GetString("card-code")
			req.ScratchCard = card
		}

		ctx, cancel := commandContext(cmd)
		defer cancel()

		receipt, err := optionalClient().Donate(ctx, req)
		if err != nil {
			return err
		}
		success(cmd, "Donation of %d via %s received", receipt.Amount, receipt.Method)
		printf(cmd, "Transaction: %s\nStatus:      %s\n", receipt.TransactionID, receipt.Status)
		return nil
	},
}

var donationStatusCmd = &cobra.Command{
	Use:   "status [transaction-id]",
	Short: "Check the status of a donation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		st, err := newClient().DonationStatus(ctx, args[0])
		if err != nil {
			return err
		}
		printf(cmd, "Transaction: %s\nAmount:      %d\nMethod:      %s\nStatus:      %s\nCreated:     %s\n",
			st.TransactionID, st.Amount, st.Method, st.Status, st.CreatedAt)
		return nil
	},
}

var feedbackCmd = &cobra.Command{
	Use:   "feedback [message]",
	Short: "Report a problem or send a suggestion",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := dto.CreateFeedbackRequest{Content: strings.Join(args, " ")}
		req.ErrorType, _ = cmd.Flags().GetString("type")
		req.ErrorSubType, _ = cmd.Flags().GetString("subtype")
		req.Name, _ = cmd.Flags().GetString("name")
		req.Email, _ = cmd.Flags().GetString("email")

		ctx, cancel := commandContext(cmd)
		defer cancel()

		fb, err := optionalClient().SendFeedback(ctx, req)
		if err != nil {
			return err
		}
		success(cmd, "Feedback %s submitted (%s)", fb.ID, fb.Status)
		return nil
	},
}

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Get book recommendations",
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, _ := cmd.Flags().GetString("user")
		c := optionalClient()

		ctx, cancel := commandContext(cmd)
		defer cancel()

		recs, err := c.Recommendations(ctx, userID)
		if err != nil {
			return err
		}
		printf(cmd, "Recommendations for %s (%s, model %s)\n", recs.UserID, recs.Strategy, recs.ModelVersion)
		for i, item := range recs.Items {
			printf(cmd, "%d. %s  %.2f\n", i+1, item.ISBN, item.Score)
		}
		return nil
	},
}

func init() {
	reviewCmd.Flags().IntP("rating", "r", 0, "rating from 1 to 5")

	donateCmd.AddCommand(donationStatusCmd)
	donateCmd.Flags().StringP("method", "m", models.DonationMethodMomo, "scratch_card, momo, atm or paypal")
	donateCmd.Flags().String("name", "", "donor name")
	donateCmd.Flags().String("email", "", "donor email")
	donateCmd.Flags().String("message", "", "message for the library")
	donateCmd.Flags().String("card-type", "", "scratch card provider")
	donateCmd.Flags().String("card-serial", "", "scratch card serial")
	donateCmd.Flags().String("card-code", "", "scratch card code")

	feedbackCmd.Flags().StringP("type", "t", models.DefaultFeedbackType, "feedback category")
	feedbackCmd.Flags().String("subtype", "", "feedback sub category")
	feedbackCmd.Flags().String("name", "", "your name")
	feedbackCmd.Flags().String("email", "", "contact email")

	recommendCmd.Flags().StringP("user", "u", "", "user id (defaults to the signed-in user)")
}
