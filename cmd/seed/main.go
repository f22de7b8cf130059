package main

import (
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/sysu-ecnc-dev/shift-planner/backend/internal/calendar"
	"github.com/sysu-ecnc-dev/shift-planner/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-planner/backend/internal/utils"
	"gopkg.in/yaml.v3"
)

func main() {
	var month string
	var timezone string
	var output string
	var format string
	var opts utils.RandomLedgerOptions

	flag.StringVar(&month, "month", time.Now().Format("2006-01"), "排班月份 (yyyy-MM)")
	flag.StringVar(&timezone, "timezone", "Asia/Shanghai", "日历使用的时区")
	flag.StringVar(&output, "o", "", "输出文件，为空时输出到标准输出")
	flag.StringVar(&format, "format", "json", "输出格式 (json 或 yaml)")
	flag.IntVar(&opts.Groups, "groups", 2, "组的数量")
	flag.IntVar(&opts.SubgroupsPerGroup, "subgroups", 2, "每个组的子组数量")
	flag.IntVar(&opts.Employees, "employees", 12, "员工数量")
	flag.IntVar(&opts.AvailableCars, "cars", 3, "每天可用的车辆数")
	flag.Float64Var(&opts.ShiftRatio, "ratio", 0.3, "已排班的员工天数占比")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if format != "json" && format != "yaml" {
		logger.Error("不支持的输出格式", "format", format)
		os.Exit(1)
	}

	loc, err := time.LoadLocation(timezone)
	if err != nil {
		logger.Error("无法加载时区", "timezone", timezone, "error", err)
		os.Exit(1)
	}
	cal := calendar.New(loc)

	date, err := cal.Parse(month)
	if err != nil {
		logger.Error("无法解析月份", "month", month, "error", err)
		os.Exit(1)
	}

	registry := domain.NewActionRegistry()
	l := utils.GenerateRandomLedger(cal, date, registry, opts)
	if err := utils.ValidateLedger(l, registry); err != nil {
		logger.Error("生成的排班表不合法", "error", err)
		os.Exit(1)
	}

	out := os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			logger.Error("无法创建输出文件", "file", output, "error", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}

	doc := l.ToDocument(cal)
	switch format {
	case "yaml":
		encoder := yaml.NewEncoder(out)
		encoder.SetIndent(2)
		err = encoder.Encode(doc)
		if err == nil {
			err = encoder.Close()
		}
	default:
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		err = encoder.Encode(doc)
	}
	if err != nil {
		logger.Error("无法输出排班表", "error", err)
		os.Exit(1)
	}

	logger.Info("已生成随机排班表", "month", month, "employees", len(l.Employees), "shifts", len(l.Shifts()))
}
