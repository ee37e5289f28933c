package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/jinford/blog-agent/internal/agenttools"
	"github.com/jinford/blog-agent/internal/core/agent"
)

// postRunner は1回のエージェント実行を抽象化する
type postRunner interface {
	Run(ctx context.Context, system, instruction string) (*agent.Outcome, error)
}

// GenerateAction は指定トピックで記事を1本生成するコマンドのアクション
func GenerateAction(ctx context.Context, cmd *cli.Command) error {
	envFile := cmd.String("env")
	verbose := cmd.Bool("verbose")
	topic := strings.TrimSpace(cmd.Args().First())

	if topic == "" {
		return fmt.Errorf("トピックを指定してください")
	}

	// 共通コンテキストの初期化
	appCtx, err := NewAppContext(ctx, envFile, verbose)
	if err != nil {
		return err
	}
	defer appCtx.Close()

	runner, err := appCtx.NewRunner(false)
	if err != nil {
		return err
	}

	fmt.Printf("記事を生成します: %s\n", topic)

	instruction := agent.ManualInstruction(topic, appCtx.Config.Blog.DefaultAuthorSlug)
	outcome, err := runner.Run(ctx, agent.SystemPrompt, instruction)
	if err != nil {
		return fmt.Errorf("記事の生成に失敗: %w", err)
	}

	printOutcome(outcome)
	if outcome.Status != agent.OutcomeCompleted {
		return fmt.Errorf("記事は作成されませんでした (status=%s)", outcome.Status)
	}
	return nil
}

// BatchAction はトピックファイルの各トピックについて記事を生成するコマンドのアクション
func BatchAction(ctx context.Context, cmd *cli.Command) error {
	envFile := cmd.String("env")
	verbose := cmd.Bool("verbose")
	filePath := cmd.String("file")

	if filePath == "" {
		return fmt.Errorf("--file は必須です")
	}

	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("ファイルのオープンに失敗: %w", err)
	}
	defer file.Close()

	topics, err := readTopicLines(file)
	if err != nil {
		return fmt.Errorf("ファイルの読み込みに失敗: %w", err)
	}
	if len(topics) == 0 {
		return fmt.Errorf("ファイルにトピックがありません")
	}

	// 共通コンテキストの初期化
	appCtx, err := NewAppContext(ctx, envFile, verbose)
	if err != nil {
		return err
	}
	defer appCtx.Close()

	runner, err := appCtx.NewRunner(false)
	if err != nil {
		return err
	}

	succeeded, err := runBatch(ctx, runner, appCtx.Config.Blog.DefaultAuthorSlug, topics)
	if err != nil {
		return err
	}

	fmt.Printf("バッチ完了: 成功 %d/%d\n", succeeded, len(topics))
	if succeeded < len(topics) {
		return fmt.Errorf("%d 件のトピックで記事を生成できませんでした", len(topics)-succeeded)
	}
	return nil
}

// readTopicLines は1行1トピックのファイルを読み込む。空行と # 始まりの行は無視する。
func readTopicLines(r io.Reader) ([]string, error) {
	var topics []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		topic := strings.TrimSpace(scanner.Text())
		if topic == "" || strings.HasPrefix(topic, "#") {
			continue
		}
		topics = append(topics, topic)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return topics, nil
}

// runBatch はトピックごとにエージェントを実行し、成功件数を返す。
// 1件の失敗ではループを止めない。
func runBatch(ctx context.Context, runner postRunner, defaultAuthorSlug string, topics []string) (int, error) {
	fmt.Printf("%d 件の記事を生成します\n", len(topics))

	succeeded := 0
	for i, topic := range topics {
		if err := ctx.Err(); err != nil {
			return succeeded, err
		}

		fmt.Printf("--- [%d/%d] %s ---\n", i+1, len(topics), topic)

		instruction := agent.ManualInstruction(topic, defaultAuthorSlug)
		outcome, err := runner.Run(ctx, agent.SystemPrompt, instruction)
		if err != nil {
			fmt.Printf("失敗しました: %v\n", err)
			continue
		}

		printOutcome(outcome)
		if outcome.Status == agent.OutcomeCompleted && outcome.PostID != nil {
			succeeded++
		}
	}
	return succeeded, nil
}

// replCommandKind は対話モードの入力種別
type replCommandKind int

const (
	replQuit replCommandKind = iota
	replStatus
	replAuto
	replEmpty
	replTopic
)

// classifyREPLInput は対話モードの入力をコマンドとトピックに振り分ける
func classifyREPLInput(input string) replCommandKind {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "quit", "exit", "q":
		return replQuit
	case "status":
		return replStatus
	case "auto":
		return replAuto
	case "":
		return replEmpty
	}
	return replTopic
}

// InteractiveAction は対話的にトピックを受け取って記事を生成するコマンドのアクション
// status でキューの状態を表示し、auto でキューから1件処理する。
func InteractiveAction(ctx context.Context, cmd *cli.Command) error {
	envFile := cmd.String("env")
	verbose := cmd.Bool("verbose")

	// 共通コンテキストの初期化
	appCtx, err := NewAppContext(ctx, envFile, verbose)
	if err != nil {
		return err
	}
	defer appCtx.Close()

	runner, err := appCtx.NewRunner(false)
	if err != nil {
		return err
	}

	// auto 用（キュー系ツール入り）のランナーは初回利用時に組み立てる
	var autoRunner *agent.Runner

	fmt.Println("トピックを入力してください (コマンド: quit / status / auto)")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())

		switch classifyREPLInput(input) {
		case replQuit:
			return scanner.Err()

		case replEmpty:
			continue

		case replStatus:
			status, err := appCtx.Queue.Status(ctx)
			if err != nil {
				fmt.Fprintf(os.Stderr, "キュー状態の取得に失敗しました: %v\n", err)
				continue
			}
			fmt.Println(agenttools.FormatQueueStatus(status))

		case replAuto:
			if autoRunner == nil {
				autoRunner, err = appCtx.NewRunner(true)
				if err != nil {
					return err
				}
			}
			instruction := agent.AutonomousInstruction(appCtx.Config.Blog.DefaultAuthorSlug)
			outcome, err := autoRunner.Run(ctx, agent.SystemPrompt, instruction)
			if err != nil {
				fmt.Fprintf(os.Stderr, "生成に失敗しました: %v\n", err)
				continue
			}
			printOutcome(outcome)

		case replTopic:
			instruction := agent.ManualInstruction(input, appCtx.Config.Blog.DefaultAuthorSlug)
			outcome, err := runner.Run(ctx, agent.SystemPrompt, instruction)
			if err != nil {
				fmt.Fprintf(os.Stderr, "生成に失敗しました: %v\n", err)
				continue
			}
			printOutcome(outcome)
		}
	}
	return scanner.Err()
}

// printOutcome はエージェント実行の結果を表示する
func printOutcome(outcome *agent.Outcome) {
	switch outcome.Status {
	case agent.OutcomeCompleted:
		if outcome.PostID != nil {
			fmt.Printf("記事を作成しました: %s (%d ターン)\n", outcome.PostID, outcome.Turns)
		} else {
			fmt.Printf("完了しました (%d ターン)\n", outcome.Turns)
		}
	case agent.OutcomeSkipped:
		fmt.Printf("スキップされました: %s\n", outcome.Reason)
	case agent.OutcomeFailed:
		fmt.Printf("失敗しました: %s\n", outcome.Reason)
	case agent.OutcomeExhausted:
		fmt.Printf("ターン上限 (%d) に達しました\n", outcome.Turns)
	}
	if outcome.Message != "" {
		fmt.Println(outcome.Message)
	}
}
