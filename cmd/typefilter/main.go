package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"typefilter/internal/config"
	"typefilter/internal/diag"
	"typefilter/internal/pipeline"
	"typefilter/pkg/contract"
)

var pipelineRun = pipeline.Run

// typefilter [flags] file...
// 按行合并输入文件，按 整数/浮点/字符串 分类写出，并可打印统计。
func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run 执行一次 CLI 调用并返回退出码；配置错误 3，运行失败 1。
func run(args []string, stdout, stderr io.Writer) int {
	if args == nil {
		// cobra 在 nil 时回退到 os.Args
		args = []string{}
	}

	c := &cli{stdout: stdout, stderr: stderr, args: args}
	cmd := c.command()
	// 先校验开关，未知开关与缺值不交给 pflag
	cmd.InitDefaultHelpFlag()
	if err := config.CheckArgs(cmd.Flags(), args); err != nil {
		return c.fail(err)
	}
	// 开关合法后、读取配置前加载工作目录下的 .env（不覆盖已有 ENV）
	_ = godotenv.Load(".env")
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		return c.fail(err)
	}
	return diag.ExitOK
}

type cli struct {
	stdout, stderr io.Writer
	args           []string
	// reported: 错误已由流水线逐条打印（写出失败）
	reported bool
}

func (c *cli) command() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "typefilter [flags] file...",
		Short:         "Split lines of input files into integers, floats and strings",
		Args:          cobra.ArbitraryArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, files []string) error {
			return c.execute(cmd, files)
		},
	}
	cmd.SetOut(c.stdout)
	cmd.SetErr(c.stderr)
	config.AddFlags(cmd.Flags())
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return config.FlagError(err)
	})
	return cmd
}

// fail 打印尚未报告的错误并映射退出码。
func (c *cli) fail(err error) int {
	if !c.reported {
		diag.NewConsole(c.stdout, c.stderr, "never").PrintError(err)
	}
	return diag.ExitCode(err)
}

func (c *cli) execute(cmd *cobra.Command, files []string) error {
	start := time.Now()
	cfg, err := config.Load(cmd.Flags(), files)
	if err != nil {
		return err
	}

	// --init-config: 生成模板并退出
	if cfg.InitConfig != "" {
		written, err := config.WriteTemplates(cfg.InitConfig)
		if err != nil {
			return fmt.Errorf("%w: init-config: %v", contract.ErrConfigInvalid, err)
		}
		for _, p := range written {
			fmt.Fprintln(c.stdout, p)
		}
		return nil
	}

	if cfg.ShowArgs {
		fmt.Fprint(c.stdout, config.FormatArgs(c.args, cfg))
	}

	comp, set, err := config.Assemble(cfg, c.stdout, c.stderr)
	if err != nil {
		return err
	}

	logger, err := diag.NewLogger(uuid.NewString(), cfg.Log.Level, cfg.Log.Dir)
	if err != nil {
		return fmt.Errorf("%w: log: %v", contract.ErrConfigInvalid, err)
	}
	defer logger.Close()
	logger.DebugStart("config", "effective", "", map[string]string{"config": config.EffectiveJSON(cfg)})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	t := logger.Start("pipeline", "run")
	res, err := pipelineRun(ctx, comp, set, logger)
	if err != nil {
		code := diag.Classify(err)
		logger.Error("pipeline", code, err.Error(), &start)
		diag.IncOp("pipeline", "error", "error")
		diag.IncError("pipeline", code)
		// 写出失败已逐条打印
		c.reported = res != nil
	} else {
		t.Finish("run", int64(res.Buckets.Len()))
		diag.IncOp("pipeline", "finish", "success")
	}
	diag.ObserveDuration("pipeline", "finish", time.Since(start).Milliseconds())

	if cfg.MetricsFile != "" {
		if merr := diag.WriteMetrics(cfg.MetricsFile); merr != nil {
			logger.Error("metrics", diag.Classify(merr), merr.Error(), nil)
		}
	}
	return err
}
